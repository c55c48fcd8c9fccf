package server

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

// SourceChunk is one retrieved chunk backing an answer.
type SourceChunk struct {
	Content         string  `json:"content"`
	Source          string  `json:"source"`
	ChunkID         int     `json:"chunk_id"`
	SimilarityScore float64 `json:"similarity_score"`
}

// QueryResponse is the body of a successful POST /query.
type QueryResponse struct {
	Answer       string        `json:"answer"`
	SourceChunks []SourceChunk `json:"source_chunks"`
}

// DocumentUploadResponse is the body of a successful POST /documents/upload.
type DocumentUploadResponse struct {
	FileName      string `json:"file_name"`
	ChunksCreated int    `json:"chunks_created"`
	DocumentID    string `json:"document_id"`
	Summary       string `json:"summary,omitempty"`
	Message       string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	VectorDBStatus string `json:"vector_db_status"`
	TotalDocuments int    `json:"total_documents"`
}

// MessageResponse carries a single informational message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries a single error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

package domain

import "time"

// Document represents a single uploaded file after text extraction.
type Document struct {
	ID      string
	Name    string
	Content string
}

// Chunk is a semantically meaningful part of a document used for indexing.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Source     string
	Text       string
	Index      int
	UploadedAt time.Time
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// IngestResult describes the outcome of processing one uploaded document.
type IngestResult struct {
	FileName      string
	DocumentID    string
	ChunksCreated int
	Summary       string
}

// Answer is a synthesized reply plus the chunks it was grounded on.
type Answer struct {
	Text    string
	Sources []SearchResult
}

// CollectionStats reports the state of the backing vector store.
type CollectionStats struct {
	TotalChunks int
}

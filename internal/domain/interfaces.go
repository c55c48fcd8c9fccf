package domain

import "context"

// Extractor turns raw uploaded file bytes into plain text.
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) (string, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorStore persists vectors and supports similarity search.
type VectorStore interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// Generator synthesizes an answer to a question from retrieved context chunks.
type Generator interface {
	Name() string
	GenerateAnswer(ctx context.Context, question string, contextChunks []string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// RAGService defines the operations exposed by the application core.
type RAGService interface {
	IngestDocument(ctx context.Context, fileName string, data []byte) (*IngestResult, error)
	Query(ctx context.Context, question string, topK int) (*Answer, error)
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (*CollectionStats, error)
}

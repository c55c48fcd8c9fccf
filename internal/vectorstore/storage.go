package vectorstore

import (
	"context"

	"ragserver/internal/domain"
)

// Storage persists vectors and supports similarity search.
type Storage interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

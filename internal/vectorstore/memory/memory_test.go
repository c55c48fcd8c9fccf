package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragserver/internal/domain"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()

	chunks := []domain.Chunk{
		{DocumentID: "d1", ChunkID: "d1:0", Source: "a.txt", Text: "alpha", Index: 0},
		{DocumentID: "d1", ChunkID: "d1:1", Source: "a.txt", Text: "beta", Index: 1},
		{DocumentID: "d2", ChunkID: "d2:0", Source: "b.txt", Text: "gamma", Index: 0},
	}
	vectors := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}

	t.Run("init rejects invalid dimension", func(t *testing.T) {
		s := NewStorage()
		require.Error(t, s.Init(ctx, 0))
	})

	t.Run("upsert and search by cosine similarity", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(ctx, 3))
		require.NoError(t, s.Upsert(ctx, chunks, vectors))

		results, err := s.Search(ctx, []float64{0.9, 0.1, 0}, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "d1:0", results[0].Chunk.ChunkID)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("count and clear", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(ctx, 3))
		require.NoError(t, s.Upsert(ctx, chunks, vectors))

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		require.NoError(t, s.Clear(ctx))
		n, err = s.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("dimension mismatch rejected", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(ctx, 3))
		err := s.Upsert(ctx, chunks[:1], [][]float64{{1, 0}})
		require.Error(t, err)
	})

	t.Run("length mismatch rejected", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(ctx, 3))
		err := s.Upsert(ctx, chunks, vectors[:2])
		require.Error(t, err)
	})

	t.Run("re-init with new dimension drops old vectors", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(ctx, 3))
		require.NoError(t, s.Upsert(ctx, chunks, vectors))
		require.NoError(t, s.Init(ctx, 4))
		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

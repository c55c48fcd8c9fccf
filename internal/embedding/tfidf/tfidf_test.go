package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder(t *testing.T) {
	ctx := context.Background()
	corpus := []string{
		"cats chase mice around houses",
		"dogs chase cats around gardens",
		"planets orbit stars across galaxies",
	}

	t.Run("embed before prepare fails", func(t *testing.T) {
		e := NewEmbedder()
		_, err := e.Embed(ctx, "anything")
		require.Error(t, err)
	})

	t.Run("prepare builds vocabulary", func(t *testing.T) {
		e := NewEmbedder()
		require.NoError(t, e.Prepare(corpus))
		assert.Greater(t, e.Dimension(), 0)
	})

	t.Run("vectors are L2 normalized", func(t *testing.T) {
		e := NewEmbedder()
		require.NoError(t, e.Prepare(corpus))
		vec, err := e.Embed(ctx, "cats chase mice")
		require.NoError(t, err)
		norm := 0.0
		for _, v := range vec {
			norm += v * v
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
	})

	t.Run("similar texts score higher than unrelated", func(t *testing.T) {
		e := NewEmbedder()
		require.NoError(t, e.Prepare(corpus))
		q, err := e.Embed(ctx, "cats chase mice")
		require.NoError(t, err)
		vectors, err := e.EmbedBatch(ctx, corpus)
		require.NoError(t, err)
		require.Len(t, vectors, len(corpus))
		assert.Greater(t, dot(q, vectors[0]), dot(q, vectors[2]))
	})

	t.Run("unknown tokens embed to zero vector", func(t *testing.T) {
		e := NewEmbedder()
		require.NoError(t, e.Prepare(corpus))
		vec, err := e.Embed(ctx, "zxqv wvut")
		require.NoError(t, err)
		for _, v := range vec {
			assert.Zero(t, v)
		}
	})

	t.Run("empty corpus fails", func(t *testing.T) {
		e := NewEmbedder()
		require.Error(t, e.Prepare(nil))
	})
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

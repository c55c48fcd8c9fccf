package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragserver/internal/domain"
)

func TestSentenceChunker(t *testing.T) {
	doc := domain.Document{
		ID:      "doc1",
		Name:    "report.txt",
		Content: "One. Two. Three. Four. Five. Six. Seven.",
	}

	t.Run("chunks with overlap", func(t *testing.T) {
		c := NewSentenceChunker(3, 1)
		chunks, err := c.Chunk(doc)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)

		assert.Equal(t, "One. Two. Three.", chunks[0].Text)
		// overlap of one sentence between consecutive chunks
		assert.True(t, strings.HasPrefix(chunks[1].Text, "Three."))

		for i, ch := range chunks {
			assert.Equal(t, "doc1", ch.DocumentID)
			assert.Equal(t, "report.txt", ch.Source)
			assert.Equal(t, i, ch.Index)
		}
	})

	t.Run("overlap equal to window still terminates", func(t *testing.T) {
		c := NewSentenceChunker(2, 2)
		chunks, err := c.Chunk(doc)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)
		// clamped to one sentence of overlap, so the window advances
		assert.LessOrEqual(t, len(chunks), 7)
		assert.Equal(t, "One. Two.", chunks[0].Text)
	})

	t.Run("text without sentence punctuation", func(t *testing.T) {
		c := NewSentenceChunker(5, 0)
		chunks, err := c.Chunk(domain.Document{ID: "d", Content: "no punctuation here"})
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "no punctuation here", chunks[0].Text)
	})

	t.Run("empty document", func(t *testing.T) {
		c := NewSentenceChunker(5, 0)
		chunks, err := c.Chunk(domain.Document{ID: "d", Content: "   "})
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})
}

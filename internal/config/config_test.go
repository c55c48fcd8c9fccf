package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, ":8000", cfg.Server.Addr)
		assert.Equal(t, "recursive", cfg.Chunker.Type)
		assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
		assert.Equal(t, 200, cfg.Chunker.ChunkOverlap)
		assert.Equal(t, "tfidf", cfg.Embedder.Type)
		assert.Equal(t, "memory", cfg.VectorStore.Type)
		assert.Equal(t, "extractive", cfg.LLM.Provider)
		assert.Equal(t, 3, cfg.Retrieval.TopK)
	})

	t.Run("yaml values with defaults applied", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := `
server:
  addr: ":9090"
embedder:
  type: openai
  openai:
    model: text-embedding-3-large
vector_store:
  type: qdrant
  qdrant:
    url: http://localhost:6333
llm:
  provider: anthropic
  model: claude-3-5-haiku-latest
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, "text-embedding-3-large", cfg.Embedder.OpenAI.Model)
		assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
		assert.Equal(t, 32, cfg.Embedder.OpenAI.BatchSize)
		assert.Equal(t, "documents", cfg.VectorStore.Qdrant.Collection)
		assert.Equal(t, "ANTHROPIC_API_KEY", cfg.LLM.APIKeyEnv)
		assert.Equal(t, 500, cfg.LLM.MaxTokens)
		assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-9)
	})

	t.Run("sentence overlap clamped below window size", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := `
chunker:
  type: sentence
  sentences_per_chunk: 2
  overlap_sentences: 2
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Chunker.OverlapSentences)
	})

	t.Run("environment overrides server settings", func(t *testing.T) {
		t.Setenv("RAG_ADDR", ":7777")
		t.Setenv("RAG_LOG_LEVEL", "debug")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, ":7777", cfg.Server.Addr)
		assert.Equal(t, "debug", cfg.Server.LogLevel)
	})

	t.Run("save and reload round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sub", "config.yaml")
		cfg := defaultConfig()
		cfg.Server.Addr = ":1234"
		require.NoError(t, Save(path, cfg))

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":1234", loaded.Server.Addr)
	})
}

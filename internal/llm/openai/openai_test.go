package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	t.Run("missing API key", func(t *testing.T) {
		_, err := NewGenerator(Config{APIKeyEnv: "TEST_CHAT_KEY_UNSET"})
		require.Error(t, err)
	})

	t.Run("timeout is applied to the HTTP client", func(t *testing.T) {
		t.Setenv("TEST_CHAT_KEY", "test-key")
		g, err := NewGenerator(Config{APIKeyEnv: "TEST_CHAT_KEY", Timeout: 3 * time.Second})
		require.NoError(t, err)
		require.NotNil(t, g.client)
	})
}

func TestGenerateAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[1].Content, "Context 1: Cats purr.")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Cats purr when content.\n"}},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("TEST_CHAT_KEY", "test-key")
	g, err := NewGenerator(Config{
		BaseURL:   srv.URL + "/v1",
		APIKeyEnv: "TEST_CHAT_KEY",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)

	answer, err := g.GenerateAnswer(context.Background(), "why do cats purr", []string{"Cats purr."})
	require.NoError(t, err)
	assert.Equal(t, "Cats purr when content.", answer)
}

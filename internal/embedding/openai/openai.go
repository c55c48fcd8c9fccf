package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	gopenai "github.com/sashabaranov/go-openai"
)

// Client produces embeddings through an OpenAI-compatible endpoint.
// Pointing BaseURL at a local server (e.g. Ollama) works the same way.
type Client struct {
	client    *gopenai.Client
	model     string
	batchSize int
	dimension int
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
	BatchSize int
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	clientCfg := gopenai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Client{
		client:    gopenai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		batchSize: cfg.BatchSize,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai" }

// Prepare is not required for remote embedding. Dimension is set lazily on
// the first embed call.
func (c *Client) Prepare(_ []string) error { return nil }

// Dimension returns the dimensionality of the produced embedding vectors.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in request batches of the configured size.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	resp, err := retry.DoWithData(func() (gopenai.EmbeddingResponse, error) {
		return c.client.CreateEmbeddings(ctx, gopenai.EmbeddingRequest{
			Model: gopenai.EmbeddingModel(c.model),
			Input: texts,
		})
	},
		retry.Attempts(5),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(5*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.New("embeddings response length mismatch")
	}
	vectors := make([][]float64, len(resp.Data))
	for i, item := range resp.Data {
		vec := make([]float64, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float64(v)
		}
		if c.dimension == 0 {
			c.dimension = len(vec)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	gopenai "github.com/sashabaranov/go-openai"

	"ragserver/internal/llm"
)

// Generator answers questions through an OpenAI-compatible chat completions
// endpoint.
type Generator struct {
	client      *gopenai.Client
	model       string
	maxTokens   int
	temperature float32
}

// Config configures the OpenAI chat generator.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func NewGenerator(cfg Config) (*Generator, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	clientCfg := gopenai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Generator{
		client:      gopenai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
	}, nil
}

func (g *Generator) Name() string { return "openai" }

func (g *Generator) GenerateAnswer(ctx context.Context, question string, contextChunks []string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []gopenai.ChatCompletionMessage{
			{Role: gopenai.ChatMessageRoleSystem, Content: llm.SystemPrompt},
			{Role: gopenai.ChatMessageRoleUser, Content: llm.BuildPrompt(question, contextChunks)},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

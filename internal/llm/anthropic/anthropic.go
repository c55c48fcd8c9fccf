package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"ragserver/internal/llm"
)

// Generator answers questions through the Anthropic Messages API.
type Generator struct {
	client      sdk.Client
	model       string
	maxTokens   int64
	temperature float64
}

// Config configures the Anthropic generator.
type Config struct {
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
		cfg.Model = string(sdk.ModelClaude3_5HaikuLatest)
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	client := sdk.NewClient(
		option.WithAPIKey(key),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	return &Generator{
		client:      client,
		model:       cfg.Model,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}, nil
}

func (g *Generator) Name() string { return "anthropic" }

func (g *Generator) GenerateAnswer(ctx context.Context, question string, contextChunks []string) (string, error) {
	message, err := g.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(g.model),
		MaxTokens:   g.maxTokens,
		Temperature: sdk.Float(g.temperature),
		System: []sdk.TextBlockParam{
			{Text: llm.SystemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(llm.BuildPrompt(question, contextChunks))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("messages API: %w", err)
	}
	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	answer := strings.TrimSpace(b.String())
	if answer == "" {
		return "", errors.New("no text content in response")
	}
	return answer, nil
}

package extractive

import (
	"context"
	"strings"

	"ragserver/internal/domain"
)

// Generator is the offline fallback provider. Instead of calling a hosted
// model it summarizes the retrieved chunks, so the service stays usable
// without any API keys.
type Generator struct {
	summarizer   domain.Summarizer
	maxSentences int
}

func NewGenerator(summarizer domain.Summarizer, maxSentences int) *Generator {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	return &Generator{summarizer: summarizer, maxSentences: maxSentences}
}

func (g *Generator) Name() string { return "extractive" }

func (g *Generator) GenerateAnswer(_ context.Context, _ string, contextChunks []string) (string, error) {
	return g.summarizer.Summarize(strings.Join(contextChunks, "\n\n"), g.maxSentences)
}

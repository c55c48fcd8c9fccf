// Package llm holds answer synthesis providers and the shared prompt layout.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// SystemPrompt pins the assistant to the retrieved context.
const SystemPrompt = "You are a helpful assistant that answers questions based only on the provided context."

// NoAnswerMessage is what the model is instructed to reply when the context
// does not contain the answer.
const NoAnswerMessage = "I don't have enough information to answer this question."

// Generator synthesizes an answer to a question from retrieved context chunks.
type Generator interface {
	Name() string
	GenerateAnswer(ctx context.Context, question string, contextChunks []string) (string, error)
}

// BuildPrompt renders the user prompt with enumerated context chunks.
func BuildPrompt(question string, contextChunks []string) string {
	var b strings.Builder
	b.WriteString("Answer the question based only on the following context. ")
	b.WriteString("If the answer is not in the context, say ")
	fmt.Fprintf(&b, "%q.\n\nContext:\n", NoAnswerMessage)
	for i, chunk := range contextChunks {
		fmt.Fprintf(&b, "Context %d: %s\n\n", i+1, chunk)
	}
	fmt.Fprintf(&b, "Question: %s\nAnswer:", question)
	return b.String()
}

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("What is Go?", []string{"Go is a language.", "Go compiles fast."})

	assert.Contains(t, prompt, "Context 1: Go is a language.")
	assert.Contains(t, prompt, "Context 2: Go compiles fast.")
	assert.Contains(t, prompt, "Question: What is Go?")
	assert.Contains(t, prompt, NoAnswerMessage)
	assert.Contains(t, prompt, "Answer:")
}

func TestBuildPromptNoContext(t *testing.T) {
	prompt := BuildPrompt("anything", nil)
	assert.NotContains(t, prompt, "Context 1:")
	assert.Contains(t, prompt, "Question: anything")
}

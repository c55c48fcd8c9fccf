package extract

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// TextExtractor reads plain text and markdown files as-is.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor { return &TextExtractor{} }

func (e *TextExtractor) Extract(_ context.Context, _ string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("file is not valid UTF-8 text")
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("file contains no text")
	}
	return text, nil
}

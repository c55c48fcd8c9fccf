package extract

import (
	"context"
	"errors"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// HTMLExtractor converts HTML uploads to markdown before indexing.
// Markdown keeps headings and lists, which chunk better than stripped text.
type HTMLExtractor struct {
	converter *md.Converter
}

func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{converter: md.NewConverter("", true, nil)}
}

func (e *HTMLExtractor) Extract(_ context.Context, _ string, data []byte) (string, error) {
	markdown, err := e.converter.ConvertString(string(data))
	if err != nil {
		return "", err
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return "", errors.New("document contains no text")
	}
	return markdown, nil
}

// Package extract turns uploaded files into plain text ready for chunking.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the upload file types the service accepts.
var SupportedExtensions = []string{".pdf", ".txt", ".md", ".docx", ".doc", ".html"}

// Supported reports whether the given file name has an accepted extension.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Router picks an extractor backend based on the file extension.
// Plain text and markdown are read directly, HTML is converted to markdown,
// and everything else (pdf, docx, doc) goes through Tika.
type Router struct {
	text *TextExtractor
	html *HTMLExtractor
	tika *TikaExtractor
}

// NewRouter creates a Router. tika may be nil, in which case binary formats
// are rejected with an error pointing at the missing configuration.
func NewRouter(tika *TikaExtractor) *Router {
	return &Router{
		text: NewTextExtractor(),
		html: NewHTMLExtractor(),
		tika: tika,
	}
}

func (r *Router) Extract(ctx context.Context, name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return r.text.Extract(ctx, name, data)
	case ".html":
		return r.html.Extract(ctx, name, data)
	case ".pdf", ".docx", ".doc":
		if r.tika == nil {
			return "", fmt.Errorf("no tika extractor configured, cannot process %s", name)
		}
		return r.tika.Extract(ctx, name, data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(name))
	}
}

package chunker

import (
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"ragserver/internal/domain"
)

// RecursiveChunker splits text into character-budgeted chunks with overlap,
// preferring paragraph and line boundaries over mid-word cuts.
type RecursiveChunker struct {
	splitter textsplitter.RecursiveCharacter
}

func NewRecursiveChunker(chunkSize, chunkOverlap int) *RecursiveChunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	return &RecursiveChunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
	}
}

func (c *RecursiveChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	parts, err := c.splitter.SplitText(document.Content)
	if err != nil {
		return nil, err
	}
	var chunks []domain.Chunk
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := len(chunks)
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Source:     document.Name,
			Text:       part,
			Index:      idx,
		})
	}
	return chunks, nil
}

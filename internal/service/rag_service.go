package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"ragserver/internal/domain"
)

// NoDocumentsAnswer is returned for queries against an empty index.
const NoDocumentsAnswer = "No relevant documents found. Please upload documents first."

// RAGServiceImpl coordinates the extract -> chunk -> embed -> store pipeline
// and the embed -> search -> generate query path.
//
// All indexed chunks are also kept in memory: the TF-IDF embedder needs the
// full corpus when its vocabulary grows, and the lexical fallback ranks over
// raw chunk text.
type RAGServiceImpl struct {
	extractor  domain.Extractor
	chunker    domain.Chunker
	embedder   domain.Embedder
	store      domain.VectorStore
	summarizer domain.Summarizer
	generator  domain.Generator

	summaryMaxSentences int
	defaultTopK         int

	mu         sync.RWMutex
	chunks     []domain.Chunk
	storeReady bool
}

func NewRAGService(
	extractor domain.Extractor,
	chunker domain.Chunker,
	embedder domain.Embedder,
	store domain.VectorStore,
	summarizer domain.Summarizer,
	generator domain.Generator,
	summaryMaxSentences int,
	defaultTopK int,
) *RAGServiceImpl {
	if summaryMaxSentences <= 0 {
		summaryMaxSentences = 5
	}
	if defaultTopK <= 0 {
		defaultTopK = 3
	}
	return &RAGServiceImpl{
		extractor:           extractor,
		chunker:             chunker,
		embedder:            embedder,
		store:               store,
		summarizer:          summarizer,
		generator:           generator,
		summaryMaxSentences: summaryMaxSentences,
		defaultTopK:         defaultTopK,
	}
}

// IngestDocument extracts text from an uploaded file, chunks it, embeds the
// chunks and upserts them into the vector store. Re-uploading a file replaces
// its previous chunks.
func (s *RAGServiceImpl) IngestDocument(ctx context.Context, fileName string, data []byte) (*domain.IngestResult, error) {
	text, err := s.extractor.Extract(ctx, fileName, data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", fileName, err)
	}

	docID := hashString(fileName)
	doc := domain.Document{ID: docID, Name: fileName, Content: text}
	newChunks, err := s.chunker.Chunk(doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", fileName, err)
	}
	if len(newChunks) == 0 {
		return nil, fmt.Errorf("document %s produced no chunks", fileName)
	}
	uploadedAt := time.Now().UTC()
	for i := range newChunks {
		newChunks[i].UploadedAt = uploadedAt
	}
	log.Info().
		Str("file", fileName).
		Str("document_id", docID).
		Int("chunks", len(newChunks)).
		Msg("document processed")

	s.mu.Lock()
	defer s.mu.Unlock()

	prior := s.chunks
	kept, replaced := chunksWithout(prior, docID)
	s.chunks = append(kept, newChunks...)

	prevDim := s.embedder.Dimension()
	if err := s.embedder.Prepare(s.texts()); err != nil {
		s.restoreLocked(ctx, prior, false)
		return nil, fmt.Errorf("prepare embedder: %w", err)
	}

	vocabChanged := s.embedder.Dimension() != prevDim && prevDim != 0
	if vocabChanged || replaced > 0 {
		// Either every stored vector is stale or old chunks of this
		// document must go; both mean rebuilding the store.
		if err := s.reindexLocked(ctx); err != nil {
			s.restoreLocked(ctx, prior, true)
			return nil, err
		}
	} else {
		vectors, err := s.embedder.EmbedBatch(ctx, chunkTexts(newChunks))
		if err != nil {
			s.restoreLocked(ctx, prior, false)
			return nil, fmt.Errorf("embed chunks: %w", err)
		}
		if !s.storeReady {
			if err := s.store.Init(ctx, len(vectors[0])); err != nil {
				s.restoreLocked(ctx, prior, false)
				return nil, fmt.Errorf("init vector store: %w", err)
			}
			s.storeReady = true
		}
		if err := s.store.Upsert(ctx, newChunks, vectors); err != nil {
			s.restoreLocked(ctx, prior, false)
			return nil, fmt.Errorf("upsert chunks: %w", err)
		}
	}
	log.Info().
		Str("document_id", docID).
		Str("embedder", s.embedder.Name()).
		Int("dimension", s.embedder.Dimension()).
		Msg("chunks indexed")

	summary, err := s.summarizer.Summarize(text, s.summaryMaxSentences)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", fileName, err)
	}

	return &domain.IngestResult{
		FileName:      fileName,
		DocumentID:    docID,
		ChunksCreated: len(newChunks),
		Summary:       summary,
	}, nil
}

// Query embeds the question, retrieves the topK most similar chunks and
// synthesizes an answer constrained to them.
func (s *RAGServiceImpl) Query(ctx context.Context, question string, topK int) (*domain.Answer, error) {
	if topK <= 0 {
		topK = s.defaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chunks) == 0 {
		count, err := s.store.Count(ctx)
		if err != nil || count == 0 {
			return &domain.Answer{Text: NoDocumentsAnswer}, nil
		}
	}

	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	var results []domain.SearchResult
	if isZeroVector(vec) {
		results = s.lexicalSearchLocked(question, topK)
	} else {
		results, err = s.store.Search(ctx, vec, topK)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		if allZeroScores(results) {
			results = s.lexicalSearchLocked(question, topK)
		}
	}
	if len(results) == 0 {
		return &domain.Answer{Text: NoDocumentsAnswer}, nil
	}

	answer, err := s.generator.GenerateAnswer(ctx, question, chunkTexts(chunksOf(results)))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	log.Debug().
		Str("generator", s.generator.Name()).
		Int("sources", len(results)).
		Msg("answer generated")

	return &domain.Answer{Text: answer, Sources: results}, nil
}

// Clear drops all indexed chunks.
func (s *RAGServiceImpl) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear vector store: %w", err)
	}
	s.chunks = nil
	s.storeReady = false
	return nil
}

// Stats reports the number of indexed chunks.
func (s *RAGServiceImpl) Stats(ctx context.Context) (*domain.CollectionStats, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	return &domain.CollectionStats{TotalChunks: count}, nil
}

// reindexLocked re-embeds the whole corpus and rebuilds the store.
func (s *RAGServiceImpl) reindexLocked(ctx context.Context) error {
	vectors, err := s.embedder.EmbedBatch(ctx, s.texts())
	if err != nil {
		return fmt.Errorf("re-embed corpus: %w", err)
	}
	dimension := len(vectors[0])
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear vector store: %w", err)
	}
	if err := s.store.Init(ctx, dimension); err != nil {
		return fmt.Errorf("init vector store: %w", err)
	}
	if err := s.store.Upsert(ctx, s.chunks, vectors); err != nil {
		return fmt.Errorf("upsert corpus: %w", err)
	}
	s.storeReady = true
	log.Info().
		Int("chunks", len(s.chunks)).
		Int("dimension", dimension).
		Msg("corpus re-indexed")
	return nil
}

// chunksWithout returns chunks minus those belonging to docID. The input
// slice is left untouched so it can serve as a rollback snapshot.
func chunksWithout(chunks []domain.Chunk, docID string) ([]domain.Chunk, int) {
	kept := make([]domain.Chunk, 0, len(chunks))
	removed := 0
	for _, ch := range chunks {
		if ch.DocumentID == docID {
			removed++
			continue
		}
		kept = append(kept, ch)
	}
	return kept, removed
}

// restoreLocked rolls the chunk cache back to prior after a failed ingest
// and re-prepares the embedder so its vocabulary matches the stored vectors.
// storeDirty means the store was cleared during the failed attempt and must
// be rebuilt from the prior corpus.
func (s *RAGServiceImpl) restoreLocked(ctx context.Context, prior []domain.Chunk, storeDirty bool) {
	s.chunks = prior
	if len(prior) == 0 {
		return
	}
	if err := s.embedder.Prepare(chunkTexts(prior)); err != nil {
		log.Error().Err(err).Msg("failed to restore embedder state")
		return
	}
	if storeDirty {
		if err := s.reindexLocked(ctx); err != nil {
			log.Error().Err(err).Msg("failed to restore vector store")
		}
	}
}

func (s *RAGServiceImpl) texts() []string {
	return chunkTexts(s.chunks)
}

func chunkTexts(chunks []domain.Chunk) []string {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	return texts
}

func chunksOf(results []domain.SearchResult) []domain.Chunk {
	chunks := make([]domain.Chunk, len(results))
	for i, r := range results {
		chunks[i] = r.Chunk
	}
	return chunks
}

func isZeroVector(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

func allZeroScores(results []domain.SearchResult) bool {
	for _, r := range results {
		if r.Score > 1e-9 {
			return false
		}
	}
	return true
}

var unicodeWordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

func (s *RAGServiceImpl) lexicalSearchLocked(query string, topK int) []domain.SearchResult {
	qset := toTokenSet(query)
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(s.chunks))
	for i, ch := range s.chunks {
		scores[i] = pair{i, overlapOchiai(qset, ch.Text)}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		p := scores[i]
		out = append(out, domain.SearchResult{Chunk: s.chunks[p.idx], Score: p.score})
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// overlapOchiai scores lexical overlap: |A∩B| / sqrt(|A||B|).
func overlapOchiai(qset map[string]struct{}, text string) float64 {
	stoks := unicodeWordRe.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(stoks))
	inter := 0
	for _, t := range stoks {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	return float64(inter) / (math.Sqrt(float64(len(qset))) * math.Sqrt(float64(len(seen))))
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}

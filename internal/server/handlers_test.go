package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragserver/internal/domain"
)

type stubService struct {
	ingestResult *domain.IngestResult
	ingestErr    error
	answer       *domain.Answer
	queryErr     error
	stats        *domain.CollectionStats
	statsErr     error
	clearErr     error
	cleared      bool
}

func (s *stubService) IngestDocument(_ context.Context, fileName string, _ []byte) (*domain.IngestResult, error) {
	if s.ingestErr != nil {
		return nil, s.ingestErr
	}
	if s.ingestResult != nil {
		return s.ingestResult, nil
	}
	return &domain.IngestResult{FileName: fileName, DocumentID: "doc1", ChunksCreated: 2, Summary: "summary"}, nil
}

func (s *stubService) Query(_ context.Context, _ string, _ int) (*domain.Answer, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.answer, nil
}

func (s *stubService) Clear(_ context.Context) error {
	s.cleared = true
	return s.clearErr
}

func (s *stubService) Stats(_ context.Context) (*domain.CollectionStats, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return s.stats, nil
}

func newTestRouter(svc domain.RAGService) http.Handler {
	return NewRouter(NewHandler(svc, "", 0), true)
}

func multipartUpload(t *testing.T, fieldName, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandleRoot(t *testing.T) {
	router := newTestRouter(&stubService{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RAG System API", body["message"])
	assert.Equal(t, Version, body["version"])
}

func TestHandleHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router := newTestRouter(&stubService{stats: &domain.CollectionStats{TotalChunks: 7}})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "connected", resp.VectorDBStatus)
		assert.Equal(t, 7, resp.TotalDocuments)
	})

	t.Run("store unreachable", func(t *testing.T) {
		router := newTestRouter(&stubService{statsErr: errors.New("down")})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unreachable", resp.VectorDBStatus)
	})
}

func TestHandleUpload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router := newTestRouter(&stubService{})
		body, contentType := multipartUpload(t, "file", "notes.txt", "some text")
		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp DocumentUploadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "notes.txt", resp.FileName)
		assert.Equal(t, 2, resp.ChunksCreated)
		assert.Equal(t, "doc1", resp.DocumentID)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		router := newTestRouter(&stubService{})
		body, contentType := multipartUpload(t, "file", "image.png", "binary")
		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "unsupported file type")
	})

	t.Run("missing file field", func(t *testing.T) {
		router := newTestRouter(&stubService{})
		body, contentType := multipartUpload(t, "wrong", "notes.txt", "text")
		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pipeline failure maps to 500", func(t *testing.T) {
		router := newTestRouter(&stubService{ingestErr: errors.New("boom")})
		body, contentType := multipartUpload(t, "file", "notes.txt", "text")
		req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandleQuery(t *testing.T) {
	answer := &domain.Answer{
		Text: "42",
		Sources: []domain.SearchResult{
			{Chunk: domain.Chunk{Text: "deep thought", Source: "guide.txt", Index: 1}, Score: 0.9},
		},
	}

	t.Run("success", func(t *testing.T) {
		router := newTestRouter(&stubService{answer: answer})
		req := httptest.NewRequest(http.MethodPost, "/query",
			strings.NewReader(`{"question":"meaning of life","top_k":3}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp QueryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "42", resp.Answer)
		require.Len(t, resp.SourceChunks, 1)
		assert.Equal(t, "guide.txt", resp.SourceChunks[0].Source)
		assert.Equal(t, 1, resp.SourceChunks[0].ChunkID)
		assert.InDelta(t, 0.9, resp.SourceChunks[0].SimilarityScore, 1e-9)
	})

	t.Run("empty question rejected", func(t *testing.T) {
		router := newTestRouter(&stubService{answer: answer})
		req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"  "}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid JSON rejected", func(t *testing.T) {
		router := newTestRouter(&stubService{answer: answer})
		req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{broken`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pipeline failure maps to 500", func(t *testing.T) {
		router := newTestRouter(&stubService{queryErr: errors.New("boom")})
		req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"q"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandleClear(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc)
	req := httptest.NewRequest(http.MethodDelete, "/documents/clear", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.cleared)
	var resp MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "cleared")
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(&stubService{})
	req := httptest.NewRequest(http.MethodOptions, "/query", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

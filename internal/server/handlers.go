package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"ragserver/internal/domain"
	"ragserver/internal/extract"
)

// Version reported by the service-info and health endpoints.
const Version = "1.0.0"

// Handler holds the dependencies for HTTP handlers.
type Handler struct {
	service   domain.RAGService
	uploadDir string
	maxUpload int64
}

// NewHandler creates a Handler around the RAG service.
func NewHandler(service domain.RAGService, uploadDir string, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &Handler{service: service, uploadDir: uploadDir, maxUpload: maxUploadBytes}
}

// HandleRoot handles GET / requests.
func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "RAG System API",
		"version": Version,
		"endpoints": map[string]string{
			"health": "/health",
			"upload": "/documents/upload",
			"query":  "/query",
			"clear":  "/documents/clear",
		},
	})
}

// HandleHealth handles GET /health requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:         "degraded",
			VectorDBStatus: "unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:         "healthy",
		VectorDBStatus: "connected",
		TotalDocuments: stats.TotalChunks,
	})
}

// HandleUpload handles POST /documents/upload requests (multipart form with
// a single "file" field).
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, `missing "file" form field`)
		return
	}
	defer file.Close()

	fileName := filepath.Base(header.Filename)
	if !extract.Supported(fileName) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf(
			"unsupported file type: %s, allowed types are: %s",
			filepath.Ext(fileName), strings.Join(extract.SupportedExtensions, ", ")))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read uploaded file: "+err.Error())
		return
	}

	if err := h.saveUpload(fileName, data); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save uploaded file: "+err.Error())
		return
	}

	result, err := h.service.IngestDocument(r.Context(), fileName, data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process document: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, DocumentUploadResponse{
		FileName:      result.FileName,
		ChunksCreated: result.ChunksCreated,
		DocumentID:    result.DocumentID,
		Summary:       result.Summary,
		Message:       "Document uploaded and processed successfully.",
	})
}

// HandleQuery handles POST /query requests.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question must not be empty")
		return
	}

	answer, err := h.service.Query(r.Context(), req.Question, req.TopK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process query: "+err.Error())
		return
	}

	sources := make([]SourceChunk, 0, len(answer.Sources))
	for _, res := range answer.Sources {
		sources = append(sources, SourceChunk{
			Content:         res.Chunk.Text,
			Source:          res.Chunk.Source,
			ChunkID:         res.Chunk.Index,
			SimilarityScore: res.Score,
		})
	}
	writeJSON(w, http.StatusOK, QueryResponse{Answer: answer.Text, SourceChunks: sources})
}

// HandleClear handles DELETE /documents/clear requests.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear documents: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "All documents cleared successfully."})
}

func (h *Handler) saveUpload(fileName string, data []byte) error {
	if h.uploadDir == "" {
		return nil
	}
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(h.uploadDir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("upload saved")
	return nil
}

// Package client is a small HTTP client for the RAG server API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client talks to a running RAG server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// QueryResponse mirrors the server's POST /query response.
type QueryResponse struct {
	Answer       string `json:"answer"`
	SourceChunks []struct {
		Content         string  `json:"content"`
		Source          string  `json:"source"`
		ChunkID         int     `json:"chunk_id"`
		SimilarityScore float64 `json:"similarity_score"`
	} `json:"source_chunks"`
}

// UploadResponse mirrors the server's POST /documents/upload response.
type UploadResponse struct {
	FileName      string `json:"file_name"`
	ChunksCreated int    `json:"chunks_created"`
	DocumentID    string `json:"document_id"`
	Summary       string `json:"summary"`
	Message       string `json:"message"`
}

// HealthResponse mirrors the server's GET /health response.
type HealthResponse struct {
	Status         string `json:"status"`
	VectorDBStatus string `json:"vector_db_status"`
	TotalDocuments int    `json:"total_documents"`
}

// Query asks the server a question.
func (c *Client) Query(ctx context.Context, question string, topK int) (*QueryResponse, error) {
	body, _ := json.Marshal(map[string]any{"question": question, "top_k": topK})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out QueryResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload sends a local file to the server for indexing.
func (c *Client) Upload(ctx context.Context, path string) (*UploadResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out UploadResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the server health status.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	var out HealthResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Clear removes all indexed documents from the server.
func (c *Client) Clear(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/documents/clear", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		body, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s", req.Method, req.URL.Path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

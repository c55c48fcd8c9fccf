// Package server provides the HTTP routing for the RAG service.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(handler *Handler, enableCORS bool) *mux.Router {
	r := mux.NewRouter()

	r.Use(loggingMiddleware)
	if enableCORS {
		r.Use(corsMiddleware)
	}

	r.HandleFunc("/", handler.HandleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", handler.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/documents/upload", handler.HandleUpload).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/query", handler.HandleQuery).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/documents/clear", handler.HandleClear).Methods(http.MethodDelete, http.MethodOptions)

	return r
}

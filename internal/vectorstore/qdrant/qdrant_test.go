package qdrant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	newStorage := func(status int) (*Storage, *int) {
		var puts int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			puts++
			w.WriteHeader(status)
		}))
		t.Cleanup(srv.Close)
		return NewStorage(Config{URL: srv.URL, Collection: "documents"}), &puts
	}

	t.Run("creates collection", func(t *testing.T) {
		s, puts := newStorage(http.StatusOK)
		require.NoError(t, s.Init(context.Background(), 3))
		assert.Equal(t, 1, *puts)
	})

	t.Run("existing collection is not an error", func(t *testing.T) {
		s, _ := newStorage(http.StatusConflict)
		require.NoError(t, s.Init(context.Background(), 3))
	})

	t.Run("server error propagates", func(t *testing.T) {
		s, _ := newStorage(http.StatusInternalServerError)
		require.Error(t, s.Init(context.Background(), 3))
	})

	t.Run("invalid dimension", func(t *testing.T) {
		s, _ := newStorage(http.StatusOK)
		require.Error(t, s.Init(context.Background(), 0))
	})
}

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPAPI(t *testing.T) {
	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"session_id":"abc123"}`))
	})
	mux.HandleFunc("DELETE /sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "abc123" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Session not found"}`))
			return
		}
		deleted = r.PathValue("id")
		_, _ = w.Write([]byte(`{"message":"Session terminated successfully"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := NewHTTPAPI(srv.URL+"/", nil)

	id, err := api.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	require.NoError(t, api.Terminate(context.Background(), "abc123"))
	assert.Equal(t, "abc123", deleted)

	err = api.Terminate(context.Background(), "missing")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "Session not found", se.Detail)
}

func TestHTTPAPICreateErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewHTTPAPI(srv.URL, nil).Create(context.Background())
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusInternalServerError, se.Code)
	})

	t.Run("missing session id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := NewHTTPAPI(srv.URL, nil).Create(context.Background())
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewHTTPAPI(url, nil).Create(context.Background())
		assert.Error(t, err)
	})
}

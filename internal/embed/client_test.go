package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

func embedServer(t *testing.T, vec []float64, lastReq *embedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lastReq != nil {
			_ = json.NewDecoder(r.Body).Decode(lastReq)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "test-model",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vec},
			},
			"usage": map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
}

func TestEmbedReturnsVector(t *testing.T) {
	srv := embedServer(t, []float64{0.1, 0.2, 0.3}, nil)
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Model: "test-model"})
	vec, err := c.Embed(context.Background(), "some ad text")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
}

func TestEmbedTruncatesToBudget(t *testing.T) {
	var req embedRequest
	srv := embedServer(t, []float64{1}, &req)
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Model: "test-model", MaxChars: 10})
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	_, err := c.Embed(context.Background(), string(long))
	require.NoError(t, err)
	assert.Len(t, req.Input, 10)
	assert.Equal(t, "test-model", req.Model)
}

func TestEmbedServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Model: "m"})
	_, err := c.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEmbedConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewClient(Options{BaseURL: srv.URL, Model: "m"})
	_, err := c.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEmbedEmptyResponseIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Model: "m"})
	_, err := c.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUnavailable)
}

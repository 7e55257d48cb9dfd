package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
}

func TestEmbedBatch_SingleRequest(t *testing.T) {
	var requests int
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"one", "two", "three"}, req.Input)

		json.NewEncoder(w).Encode(embedResponse{
			Embeddings: [][]float32{{1, 0}, {0, 1}, {1, 1}},
		})
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"one", "two", "three"})

	require.NoError(t, err)
	require.Len(t, embeddings, 3)
	assert.Equal(t, []float32{0, 1}, embeddings[1])
	assert.Equal(t, 1, requests)
}

func TestEmbed_SingleText(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{0.5, 0.5}}})
	})

	embedding, err := svc.Embed(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, embedding)
}

func TestEmbedBatch_ServerErrorPayload(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Error: "model not found"})
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestEmbedBatch_BadStatus(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"x"})

	assert.Error(t, err)
}

func TestEmbedBatch_CountMismatchFails(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{1}}})
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"x", "y"})

	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
}

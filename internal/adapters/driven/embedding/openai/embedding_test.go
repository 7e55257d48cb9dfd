package openai

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

	svc, err := NewEmbeddingService(Config{
		APIKey:  "sk-test",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestNewEmbeddingService_ModelDimensions(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, svc.Dimensions())
	assert.Equal(t, "text-embedding-3-large", svc.ModelName())
}

func TestEmbedBatch_OrdersByIndex(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"first", "second"}, req.Input)

		// Respond out of order to prove placement by index.
		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.4, 0.5}, "index": 1},
				{"embedding": []float64{0.1, 0.2}, "index": 0},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})

	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2}, embeddings[0])
	assert.Equal(t, []float32{0.4, 0.5}, embeddings[1])
}

func TestEmbed_SingleText(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{1, 0}, "index": 0},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	embedding, err := svc.Embed(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, embedding)
}

func TestEmbedBatch_APIErrorPayload(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "auth"},
		})
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEmbedBatch_CountMismatchFails(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{},
		})
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"x", "y"})

	assert.Error(t, err)
}

func TestEmbedBatch_EmptyInputIsNoop(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty input")
	})

	embeddings, err := svc.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, embeddings)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
}

func TestPing_FailsOnBadStatus(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	assert.Error(t, svc.Ping(context.Background()))
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

func TestRetrieveContext_ReturnsTopKTexts(t *testing.T) {
	embedder := newStubEmbedder(3)
	embedder.vectors["What food do I like?"] = []float32{1, 0, 0}

	store := &mockObservationStore{observations: []domain.Observation{
		{Text: "I work on AI tools.", Embedding: []float32{0, 1, 0}},
		{Text: "I like green apples.", Embedding: []float32{0.9, 0.1, 0}},
	}}

	svc := NewRetrievalService(embedder, store, NewLinearRanker())

	texts, err := svc.RetrieveContext(context.Background(), "What food do I like?", 1)
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, "I like green apples.", texts[0])
}

func TestRetrieveContext_RankOrderPreserved(t *testing.T) {
	embedder := newStubEmbedder(2)
	embedder.vectors["query"] = []float32{1, 0}

	store := &mockObservationStore{observations: []domain.Observation{
		{Text: "far", Embedding: []float32{0, 1}},
		{Text: "near", Embedding: []float32{1, 0.1}},
		{Text: "middle", Embedding: []float32{1, 1}},
	}}

	svc := NewRetrievalService(embedder, store, NewLinearRanker())

	texts, err := svc.RetrieveContext(context.Background(), "query", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "middle", "far"}, texts)
}

func TestRetrieveContext_EmptyIndex(t *testing.T) {
	svc := NewRetrievalService(newStubEmbedder(3), &mockObservationStore{}, NewLinearRanker())

	texts, err := svc.RetrieveContext(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, texts)
}

func TestRetrieveContext_EmptyQuery(t *testing.T) {
	embedder := newStubEmbedder(3)
	svc := NewRetrievalService(embedder, &mockObservationStore{}, NewLinearRanker())

	texts, err := svc.RetrieveContext(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, texts)
	assert.Equal(t, 0, embedder.callCount())
}

func TestRetrieveContext_EmbedFailureIsRetrievalError(t *testing.T) {
	embedder := newStubEmbedder(3)
	embedder.err = errors.New("rate limited")

	svc := NewRetrievalService(embedder, &mockObservationStore{}, NewLinearRanker())

	_, err := svc.RetrieveContext(context.Background(), "query", 5)
	assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
}

func TestRetrieveContext_NilEmbedder(t *testing.T) {
	svc := NewRetrievalService(nil, &mockObservationStore{}, NewLinearRanker())

	_, err := svc.RetrieveContext(context.Background(), "query", 5)
	assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRetrieveContext_MalformedIndexSurfaced(t *testing.T) {
	store := &mockObservationStore{loadErr: domain.ErrIndexMalformed}
	svc := NewRetrievalService(newStubEmbedder(3), store, NewLinearRanker())

	_, err := svc.RetrieveContext(context.Background(), "query", 5)
	assert.ErrorIs(t, err, domain.ErrIndexMalformed)
	// A broken index is not a retrieval failure; the caller must see the
	// storage fault as-is.
	assert.NotErrorIs(t, err, domain.ErrRetrievalFailed)
}

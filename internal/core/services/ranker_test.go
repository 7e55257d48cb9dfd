package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

func obs(text string, embedding ...float32) domain.Observation {
	return domain.Observation{Text: text, Embedding: embedding}
}

func TestLinearRanker_OrdersByScoreDescending(t *testing.T) {
	ranker := NewLinearRanker()
	query := []float32{1, 0}

	candidates := []domain.Observation{
		obs("orthogonal", 0, 1),
		obs("aligned", 2, 0),
		obs("diagonal", 1, 1),
	}

	ranked := ranker.Rank(query, candidates, 3)
	require.Len(t, ranked, 3)

	assert.Equal(t, "aligned", ranked[0].Observation.Text)
	assert.Equal(t, "diagonal", ranked[1].Observation.Text)
	assert.Equal(t, "orthogonal", ranked[2].Observation.Text)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
}

func TestLinearRanker_ReturnsMinOfKAndCandidates(t *testing.T) {
	ranker := NewLinearRanker()
	query := []float32{1, 0}
	candidates := []domain.Observation{
		obs("a", 1, 0),
		obs("b", 0, 1),
	}

	assert.Len(t, ranker.Rank(query, candidates, 1), 1)
	assert.Len(t, ranker.Rank(query, candidates, 2), 2)
	assert.Len(t, ranker.Rank(query, candidates, 10), 2)
	assert.Empty(t, ranker.Rank(query, nil, 5))
}

func TestLinearRanker_DefaultK(t *testing.T) {
	ranker := NewLinearRanker()
	query := []float32{1}

	candidates := make([]domain.Observation, 8)
	for i := range candidates {
		candidates[i] = obs("x", 1)
	}

	assert.Len(t, ranker.Rank(query, candidates, 0), domain.DefaultTopK)
	assert.Len(t, ranker.Rank(query, candidates, -3), domain.DefaultTopK)
}

func TestLinearRanker_StableTies(t *testing.T) {
	ranker := NewLinearRanker()
	query := []float32{1, 0}

	// All candidates score identically; original order must survive.
	candidates := []domain.Observation{
		obs("first", 3, 0),
		obs("second", 1, 0),
		obs("third", 7, 0),
	}

	ranked := ranker.Rank(query, candidates, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "first", ranked[0].Observation.Text)
	assert.Equal(t, "second", ranked[1].Observation.Text)
	assert.Equal(t, "third", ranked[2].Observation.Text)
}

func TestLinearRanker_Deterministic(t *testing.T) {
	ranker := NewLinearRanker()
	query := []float32{0.4, -0.2, 0.9}
	candidates := []domain.Observation{
		obs("a", 0.1, 0.2, 0.3),
		obs("b", 0.9, -0.1, 0.2),
		obs("c", 0.4, -0.2, 0.9),
		obs("d", -0.4, 0.2, -0.9),
	}

	first := ranker.Rank(query, candidates, 4)
	for range 10 {
		again := ranker.Rank(query, candidates, 4)
		assert.Equal(t, first, again)
	}
}

func TestLinearRanker_ZeroMagnitudeCandidates(t *testing.T) {
	ranker := NewLinearRanker()
	query := []float32{1, 0}

	candidates := []domain.Observation{
		obs("zero", 0, 0),
		obs("aligned", 1, 0),
	}

	ranked := ranker.Rank(query, candidates, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "aligned", ranked[0].Observation.Text)
	assert.Equal(t, 0.0, ranked[1].Score)
}

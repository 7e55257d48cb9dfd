package services

import (
	"sort"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
)

// Ensure LinearRanker implements the interface.
var _ driven.Ranker = (*LinearRanker)(nil)

// LinearRanker scores every candidate against the query with cosine
// similarity in a single O(n) pass. At note-taking corpus scale this
// beats maintaining an approximate nearest-neighbour structure.
type LinearRanker struct{}

// NewLinearRanker creates a brute-force cosine ranker.
func NewLinearRanker() *LinearRanker {
	return &LinearRanker{}
}

// Rank returns the top k candidates sorted descending by cosine similarity.
// The sort is stable, so ties keep the candidates' original index order and
// repeated calls are deterministic.
func (r *LinearRanker) Rank(query []float32, candidates []domain.Observation, k int) []domain.RankedObservation {
	if k <= 0 {
		k = domain.DefaultTopK
	}

	ranked := make([]domain.RankedObservation, len(candidates))
	for i, obs := range candidates {
		ranked[i] = domain.RankedObservation{
			Observation: obs,
			Score:       domain.CosineSimilarity(query, obs.Embedding),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

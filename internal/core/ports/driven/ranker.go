package driven

import "github.com/recall-labs/recall-cli/internal/core/domain"

// Ranker orders observations by similarity to a query vector.
//
// The baseline implementation is a brute-force linear scan, which is fine
// at note-taking scale (hundreds to low thousands of observations). The
// interface exists so an approximate nearest-neighbour structure could be
// substituted without changing callers.
type Ranker interface {
	// Rank returns the k highest-scoring observations, sorted descending
	// by score. Ties keep the candidates' original order, so repeated
	// calls with identical input return identical output. If fewer than k
	// candidates exist, all are returned.
	Rank(query []float32, candidates []domain.Observation, k int) []domain.RankedObservation
}

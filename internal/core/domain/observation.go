package domain

import (
	"strings"
	"time"
)

// Observation is an immutable fact about the user, derived from a single
// line of the notes corpus. The trimmed line text doubles as its identity
// key across refresh cycles.
type Observation struct {
	// Text is the literal corpus line after trimming. Never empty.
	Text string

	// Embedding is the vector representation of Text. All observations
	// in an index share the same dimensionality.
	Embedding []float32

	// Date is when the observation was extracted. Optional.
	Date time.Time

	// Source names the note the observation came from. Optional.
	Source string

	// SourceQuote is the passage the observation was distilled from. Optional.
	SourceQuote string

	// Tags are free-form labels. Optional.
	Tags []string
}

// NewObservation creates an observation from a corpus line, trimming
// whitespace. Returns ErrEmptyObservation if nothing remains after trimming.
func NewObservation(text string, embedding []float32) (Observation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Observation{}, ErrEmptyObservation
	}
	return Observation{Text: text, Embedding: embedding}, nil
}

// Dimensions returns the length of the observation's embedding.
func (o Observation) Dimensions() int {
	return len(o.Embedding)
}

// RankedObservation pairs an observation with its similarity score
// against a query vector.
type RankedObservation struct {
	Observation Observation

	// Score is the cosine similarity against the query, in [-1, 1].
	Score float64
}

// CorpusLines filters raw document lines down to observation candidates:
// each line is trimmed, empty lines are dropped, and duplicate texts are
// collapsed. Text is the identity key, so repeated lines reduce to one
// observation (last-write-wins on refresh).
func CorpusLines(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return lines
}

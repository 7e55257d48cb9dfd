package driven

import (
	"context"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// ObservationStore persists the embedded observation index.
//
// The index is a single document, rewritten wholesale on every refresh and
// read wholesale on every query. One writer at a time (refreshes are
// serialised by the core); readers may observe the previous state while a
// rewrite is in flight - eventual consistency is acceptable.
type ObservationStore interface {
	// Load reads the full index. A missing index is not an error: it
	// returns an empty slice. A malformed index returns an error wrapping
	// domain.ErrIndexMalformed.
	Load(ctx context.Context) ([]domain.Observation, error)

	// Replace atomically overwrites the index with the given observations.
	// On failure the previously persisted state must remain readable.
	Replace(ctx context.Context, observations []domain.Observation) error

	// Path returns the location of the persisted index, for diagnostics.
	Path() string
}

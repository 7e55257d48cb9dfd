package driving

import (
	"context"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// RefreshOrchestrator keeps the observation index in sync with the corpus.
type RefreshOrchestrator interface {
	// NotifyChanged signals that the corpus document mutated. Calls may
	// arrive arbitrarily often; bursts coalesce into a single refresh that
	// fires one quiet period after the last call. A notification during an
	// in-flight refresh schedules a follow-up; it never starts a second
	// concurrent refresh.
	NotifyChanged()

	// Refresh runs one refresh cycle immediately, bypassing the debounce
	// timer but still serialised against any in-flight cycle. When full is
	// true every line is re-embedded; otherwise embeddings persisted for
	// unchanged text are reused.
	Refresh(ctx context.Context, full bool) (domain.RefreshStats, error)

	// Close cancels any pending timer and waits for an in-flight refresh.
	Close() error
}

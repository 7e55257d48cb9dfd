package driven

import "context"

// CorpusSource reads the observations document the host environment owns.
// The core never writes to it; mutation happens externally and arrives as
// change notifications.
type CorpusSource interface {
	// Lines returns the raw lines of the corpus document in order.
	// A missing document yields an empty corpus, not an error.
	Lines(ctx context.Context) ([]string, error)
}

// CorpusWatcher reports external mutations of the corpus document.
// Implementations translate host events (filesystem writes, editor saves)
// into calls on the registered notify function.
type CorpusWatcher interface {
	// Watch blocks until ctx is cancelled, invoking notify for every
	// observed change to the corpus document.
	Watch(ctx context.Context, notify func()) error

	// Close releases resources.
	Close() error
}

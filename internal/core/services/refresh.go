package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/core/ports/driving"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// Ensure RefreshService implements the interface.
var _ driving.RefreshOrchestrator = (*RefreshService)(nil)

// Default refresh tuning values.
const (
	// DefaultEmbedTimeout bounds a single embedding call so one hung
	// request cannot stall the whole cycle.
	DefaultEmbedTimeout = 30 * time.Second

	// DefaultEmbedConcurrency is the fan-out width for per-line
	// embedding calls within one refresh batch.
	DefaultEmbedConcurrency = 4

	// DefaultEmbedRate is the provider call budget in requests per second.
	DefaultEmbedRate = 10
)

// RefreshConfig tunes the refresh pipeline.
type RefreshConfig struct {
	// QuietPeriod is how long the corpus must stay unchanged before a
	// debounced refresh fires.
	QuietPeriod time.Duration

	// EmbedTimeout is the upper bound for one embedding call.
	EmbedTimeout time.Duration

	// EmbedConcurrency is the number of concurrent embedding calls.
	EmbedConcurrency int

	// EmbedRate limits provider calls per second. Zero means DefaultEmbedRate.
	EmbedRate float64
}

func (c *RefreshConfig) applyDefaults() {
	if c.QuietPeriod <= 0 {
		c.QuietPeriod = domain.DefaultQuietPeriod
	}
	if c.EmbedTimeout <= 0 {
		c.EmbedTimeout = DefaultEmbedTimeout
	}
	if c.EmbedConcurrency <= 0 {
		c.EmbedConcurrency = DefaultEmbedConcurrency
	}
	if c.EmbedRate <= 0 {
		c.EmbedRate = DefaultEmbedRate
	}
}

// RefreshService keeps the persisted observation index in sync with the
// corpus document. Change notifications are debounced: each call re-arms a
// single pending timer, and a refresh runs only after the corpus has been
// quiet for the configured period. Refresh cycles are strictly serialised -
// a notification landing mid-cycle schedules a follow-up cycle rather than
// racing the index rewrite.
type RefreshService struct {
	corpus   driven.CorpusSource
	store    driven.ObservationStore
	embedder driven.EmbeddingService
	limiter  *rate.Limiter
	config   RefreshConfig

	// timerMu guards the pending-timer slot. timerGen identifies the timer
	// currently occupying it: a fired callback may only clear the slot for
	// its own generation, so it cannot discard a newer timer armed in the
	// window between firing and reaching the lock.
	timerMu  sync.Mutex
	timer    *time.Timer
	timerGen uint64
	closed   bool

	// cycleMu serialises refresh cycles. Held for the whole cycle.
	cycleMu sync.Mutex

	// wg tracks debounce-triggered refreshes for Close.
	wg sync.WaitGroup
}

// NewRefreshService creates the refresh pipeline.
func NewRefreshService(
	corpus driven.CorpusSource,
	store driven.ObservationStore,
	embedder driven.EmbeddingService,
	config RefreshConfig,
) *RefreshService {
	config.applyDefaults()
	return &RefreshService{
		corpus:   corpus,
		store:    store,
		embedder: embedder,
		limiter:  rate.NewLimiter(rate.Limit(config.EmbedRate), 1),
		config:   config,
	}
}

// NotifyChanged signals that the corpus document mutated. Rapid repeated
// calls collapse into one refresh, fired one quiet period after the last
// call.
func (s *RefreshService) NotifyChanged() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.closed {
		return
	}

	// Re-arm the single pending-timer slot.
	if s.timer != nil && s.timer.Stop() {
		// The pending timer never fired; release its wg slot.
		s.wg.Done()
	}

	s.wg.Add(1)
	s.timerGen++
	gen := s.timerGen
	s.timer = time.AfterFunc(s.config.QuietPeriod, func() {
		defer s.wg.Done()
		s.clearTimer(gen)

		stats, err := s.Refresh(context.Background(), false)
		if err != nil {
			logger.Warn("Debounced refresh failed: %v", err)
			return
		}
		logger.Info("Debounced refresh: %d lines, %d embedded, %d reused, %d failed",
			stats.LinesSeen, stats.Embedded, stats.Reused, stats.Failed)
	})
}

// clearTimer empties the pending-timer slot, but only if it still holds
// the timer of generation gen. A stale callback racing NotifyChanged must
// not discard the newer timer that replaced it.
func (s *RefreshService) clearTimer(gen uint64) {
	s.timerMu.Lock()
	if s.timerGen == gen {
		s.timer = nil
	}
	s.timerMu.Unlock()
}

// Close cancels any pending timer and waits for an in-flight refresh to
// finish.
func (s *RefreshService) Close() error {
	s.timerMu.Lock()
	s.closed = true
	if s.timer != nil {
		if s.timer.Stop() {
			// Timer had not fired; release its wg slot.
			s.wg.Done()
		}
		s.timer = nil
	}
	s.timerMu.Unlock()

	s.wg.Wait()

	// Wait for a cycle started outside the debounce path.
	s.cycleMu.Lock()
	s.cycleMu.Unlock() //nolint:staticcheck // empty critical section is the barrier
	return nil
}

// Refresh runs one refresh cycle. Cycles never overlap: a caller arriving
// while another cycle runs blocks until it completes.
//
// The default policy is incremental: lines whose text already exists in the
// persisted index keep their stored embedding, and only new lines hit the
// provider. Pass full to re-embed everything, e.g. after switching models.
func (s *RefreshService) Refresh(ctx context.Context, full bool) (domain.RefreshStats, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	start := time.Now()
	stats := domain.RefreshStats{}

	if s.embedder == nil {
		return stats, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Index Refresh")

	raw, err := s.corpus.Lines(ctx)
	if err != nil {
		return stats, fmt.Errorf("read corpus: %w", err)
	}
	lines := domain.CorpusLines(raw)
	stats.LinesSeen = len(lines)
	logger.Debug("Corpus: %d raw lines, %d candidates", len(raw), len(lines))

	previous, err := s.loadPrevious(ctx, full)
	if err != nil {
		return stats, err
	}

	// Embeddings persisted under a different dimensionality cannot be
	// mixed with fresh ones; the model changed, so rebuild everything.
	if len(previous) > 0 && s.anyDimensionMismatch(previous) {
		logger.Warn("Persisted index dimensionality differs from model %s; re-embedding all lines",
			s.embedder.ModelName())
		previous = nil
	}

	reusable := make(map[string]domain.Observation, len(previous))
	for _, obs := range previous {
		reusable[obs.Text] = obs
	}

	var pending []string
	for _, line := range lines {
		if _, ok := reusable[line]; !ok {
			pending = append(pending, line)
		}
	}
	stats.Reused = len(lines) - len(pending)

	embedded, failed := s.embedBatch(ctx, pending)
	stats.Embedded = len(pending) - failed
	stats.Failed = failed

	// Assemble in corpus order, skipping lines that failed to embed.
	observations := make([]domain.Observation, 0, len(lines))
	now := time.Now()
	for _, line := range lines {
		if obs, ok := reusable[line]; ok {
			observations = append(observations, obs)
			continue
		}
		vector, ok := embedded[line]
		if !ok {
			continue
		}
		observations = append(observations, domain.Observation{
			Text:      line,
			Embedding: vector,
			Date:      now,
		})
	}

	if err := s.store.Replace(ctx, observations); err != nil {
		return stats, fmt.Errorf("persist index: %w", err)
	}

	stats.Duration = time.Since(start)
	logger.Info("Refresh complete: %d observations persisted in %s", len(observations), stats.Duration)
	return stats, nil
}

// loadPrevious reads the persisted index for embedding reuse. A full
// rebuild ignores it entirely; an incremental one propagates a malformed
// index instead of silently overwriting user data.
func (s *RefreshService) loadPrevious(ctx context.Context, full bool) ([]domain.Observation, error) {
	if full {
		return nil, nil
	}
	previous, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load previous index: %w", err)
	}
	return previous, nil
}

func (s *RefreshService) anyDimensionMismatch(observations []domain.Observation) bool {
	want := s.embedder.Dimensions()
	for _, obs := range observations {
		if obs.Dimensions() != want {
			return true
		}
	}
	return false
}

// embedBatch fans the pending lines out over a bounded worker pool and
// joins before returning, so persistence only ever sees a settled batch.
// A line that fails to embed is logged and skipped; it never aborts the
// batch.
func (s *RefreshService) embedBatch(ctx context.Context, lines []string) (map[string][]float32, int) {
	if len(lines) == 0 {
		return nil, 0
	}

	var (
		mu      sync.Mutex
		vectors = make(map[string][]float32, len(lines))
		failed  int
	)

	workers := s.config.EmbedConcurrency
	if workers > len(lines) {
		workers = len(lines)
	}

	work := make(chan string)
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for line := range work {
				vector, err := s.embedLine(ctx, line)
				mu.Lock()
				if err != nil {
					failed++
					logger.Warn("Embedding failed for %q: %v", line, err)
				} else {
					vectors[line] = vector
				}
				mu.Unlock()
			}
		}()
	}

	for _, line := range lines {
		work <- line
	}
	close(work)
	wg.Wait()

	return vectors, failed
}

func (s *RefreshService) embedLine(ctx context.Context, line string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.EmbedTimeout)
	defer cancel()

	vector, err := s.embedder.Embed(callCtx, line)
	if err != nil {
		return nil, err
	}
	if len(vector) != s.embedder.Dimensions() {
		return nil, fmt.Errorf("%w: got %d, want %d",
			domain.ErrDimensionMismatch, len(vector), s.embedder.Dimensions())
	}
	return vector, nil
}

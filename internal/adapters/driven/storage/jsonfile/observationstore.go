package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
)

// Ensure ObservationStore implements the interface.
var _ driven.ObservationStore = (*ObservationStore)(nil)

// indexEntry is the on-disk representation of a single observation.
type indexEntry struct {
	Text        string    `json:"text"`
	Embedding   []float32 `json:"embedding"`
	Date        time.Time `json:"date,omitempty"`
	Source      string    `json:"source,omitempty"`
	SourceQuote string    `json:"source_quote,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// ObservationStore reads and writes the observation index as a JSON file.
type ObservationStore struct {
	path string
}

// NewObservationStore creates a store backed by the JSON file at path.
// The file does not need to exist yet; a missing file reads as an empty index.
func NewObservationStore(path string) *ObservationStore {
	return &ObservationStore{path: path}
}

// Path returns the location of the index file.
func (s *ObservationStore) Path() string {
	return s.path
}

// Load reads the full index from disk.
//
// A missing file is not an error: it returns an empty slice so a first
// refresh can build the index from scratch. A file that exists but cannot
// be parsed, or that violates the index schema, returns ErrIndexMalformed
// so callers never silently treat a corrupt index as empty.
func (s *ObservationStore) Load(ctx context.Context) ([]domain.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Observation{}, nil
		}
		return nil, fmt.Errorf("read index %s: %w", s.path, err)
	}

	var entries []indexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrIndexMalformed, s.path, err)
	}

	observations := make([]domain.Observation, 0, len(entries))
	for i, entry := range entries {
		if entry.Text == "" {
			return nil, fmt.Errorf("%w: entry %d has empty text", domain.ErrIndexMalformed, i)
		}
		if len(entry.Embedding) == 0 {
			return nil, fmt.Errorf("%w: entry %d has no embedding", domain.ErrIndexMalformed, i)
		}
		// All entries share one dimensionality; a mixed index cannot be scored.
		if want := len(entries[0].Embedding); len(entry.Embedding) != want {
			return nil, fmt.Errorf("%w: entry %d has %d dimensions, expected %d",
				domain.ErrIndexMalformed, i, len(entry.Embedding), want)
		}
		observations = append(observations, domain.Observation{
			Text:        entry.Text,
			Embedding:   entry.Embedding,
			Date:        entry.Date,
			Source:      entry.Source,
			SourceQuote: entry.SourceQuote,
			Tags:        entry.Tags,
		})
	}

	return observations, nil
}

// Replace atomically overwrites the index with the given observations.
//
// The new content is written to a temporary file in the same directory and
// renamed over the target, so a crash mid-write leaves the previous index
// intact rather than a truncated file.
func (s *ObservationStore) Replace(ctx context.Context, observations []domain.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries := make([]indexEntry, 0, len(observations))
	for _, obs := range observations {
		entries = append(entries, indexEntry{
			Text:        obs.Text,
			Embedding:   obs.Embedding,
			Date:        obs.Date,
			Source:      obs.Source,
			SourceQuote: obs.SourceQuote,
			Tags:        obs.Tags,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp index file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp index file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp index file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace index %s: %w", s.path, err)
	}

	return nil
}

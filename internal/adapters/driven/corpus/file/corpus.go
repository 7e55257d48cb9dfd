package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
)

// Ensure CorpusSource implements the interface.
var _ driven.CorpusSource = (*CorpusSource)(nil)

// CorpusSource reads observations from a line-oriented text file.
type CorpusSource struct {
	path string
}

// NewCorpusSource creates a source backed by the file at path.
func NewCorpusSource(path string) *CorpusSource {
	return &CorpusSource{path: path}
}

// Path returns the location of the corpus file.
func (c *CorpusSource) Path() string {
	return c.path
}

// Lines reads the corpus and returns one entry per non-blank line, with
// surrounding whitespace trimmed. A missing file is an empty corpus, not
// an error, so a fresh install works before any observations exist.
func (c *CorpusSource) Lines(ctx context.Context) ([]string, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("open corpus %s: %w", c.path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	// Observations are sentences, but leave generous headroom for long lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", c.path, err)
	}

	return lines, nil
}

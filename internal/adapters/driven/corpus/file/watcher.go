package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.CorpusWatcher = (*Watcher)(nil)

// Watcher reports filesystem changes to the corpus file.
//
// It watches the parent directory rather than the file itself: editors
// commonly save via write-to-temp-then-rename, which replaces the inode
// and would silently detach a watch placed on the file.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the corpus file at path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create filesystem watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, watcher: fsw}, nil
}

// Watch blocks until ctx is cancelled or the underlying watcher fails,
// invoking notify for every event that touches the corpus file.
func (w *Watcher) Watch(ctx context.Context, notify func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.concernsCorpus(event) {
				continue
			}
			logger.Debug("corpus changed: %s (%s)", event.Name, event.Op)
			notify()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch corpus: %w", err)
		}
	}
}

// concernsCorpus reports whether the directory event affects the corpus
// file. Write covers in-place saves; Create and Rename cover the
// temp-file-and-rename save strategy; Remove is included so a delete
// (an emptied corpus) also triggers a refresh.
func (w *Watcher) concernsCorpus(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	corpusfile "github.com/recall-labs/recall-cli/internal/adapters/driven/corpus/file"
	"github.com/recall-labs/recall-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the observations file and keep the index in sync",
	Long: `Run in the foreground, watching the observations file for changes.

Every change schedules a refresh; rapid edits are coalesced so the index
is rebuilt once the file has been quiet for the configured period.
Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	watcher, err := corpusfile.NewWatcher(a.settings.CorpusPath)
	if err != nil {
		return fmt.Errorf("watch corpus: %w", err)
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catch up with whatever happened while we were not running.
	stats, err := a.refresh.Refresh(ctx, false)
	if err != nil {
		return fmt.Errorf("initial refresh failed: %w", err)
	}
	cmd.Printf("Index up to date: %d observations (embedded %d, reused %d)\n",
		stats.LinesSeen, stats.Embedded, stats.Reused)

	cmd.Printf("Watching %s (quiet period %s). Press Ctrl-C to stop.\n",
		a.settings.CorpusPath, a.settings.QuietPeriod)

	err = watcher.Watch(ctx, a.refresh.NotifyChanged)
	if errors.Is(err, context.Canceled) {
		logger.Info("Watch stopped")
		cmd.Println("Stopped.")
		return nil
	}
	return err
}

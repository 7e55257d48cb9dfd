package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshFull bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the observation index from the corpus",
	Long: `Read the observations file and bring the embedded index up to date.

By default only new lines are embedded; embeddings for unchanged lines are
reused from the existing index. Use --full to re-embed everything, for
example after switching embedding models.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshFull, "full", false, "re-embed every line instead of reusing stored embeddings")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.refresh.Refresh(cmd.Context(), refreshFull)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	cmd.Printf("Indexed %d observations in %s\n", stats.LinesSeen, stats.Duration.Round(displayDurationUnit))
	cmd.Printf("  embedded: %d, reused: %d, failed: %d\n", stats.Embedded, stats.Reused, stats.Failed)
	if stats.Failed > 0 {
		cmd.Println("Some lines could not be embedded; they stay out of the index until the next refresh.")
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent chat turns",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of turns to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{needHistory: true})
	if err != nil {
		return err
	}
	defer a.Close()

	turns, err := a.history.ListRecent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("load chat history: %w", err)
	}

	if len(turns) == 0 {
		cmd.Println("No chat history yet.")
		return nil
	}

	for _, turn := range turns {
		cmd.Printf("[%s] (%d observations)\n", turn.CreatedAt.Local().Format("2006-01-02 15:04"), turn.ContextCount)
		cmd.Printf("  Q: %s\n", turn.Question)
		cmd.Printf("  A: %s\n", turn.Answer)
		cmd.Println()
	}
	return nil
}

package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and provider status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{needLLM: true})
	if err != nil {
		return err
	}
	defer a.Close()

	cmd.Println("Recall Status")
	cmd.Println("=============")
	cmd.Println()

	cmd.Println("[Provider]")
	cmd.Printf("  Backend: %s\n", a.settings.Provider.Description())
	cmd.Printf("  Embedding model: %s (%d dimensions)\n", a.embedder.ModelName(), a.embedder.Dimensions())
	cmd.Printf("  Chat model: %s\n", a.llm.ModelName())

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	if err := a.embedder.Ping(ctx); err != nil {
		cmd.Printf("  Reachable: no (%v)\n", err)
	} else {
		cmd.Println("  Reachable: yes")
	}
	cmd.Println()

	cmd.Println("[Corpus]")
	cmd.Printf("  File: %s\n", a.settings.CorpusPath)
	lines, err := a.corpus.Lines(cmd.Context())
	if err != nil {
		cmd.Printf("  Lines: unreadable (%v)\n", err)
	} else {
		cmd.Printf("  Lines: %d\n", len(lines))
	}
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  File: %s\n", a.store.Path())
	observations, err := a.store.Load(cmd.Context())
	switch {
	case err != nil:
		cmd.Printf("  Observations: unreadable (%v)\n", err)
		cmd.Println("  Run 'recall refresh --full' to rebuild the index.")
	case len(observations) == 0:
		cmd.Println("  Observations: 0 (run 'recall refresh' to build the index)")
	default:
		cmd.Printf("  Observations: %d (%d dimensions)\n", len(observations), observations[0].Dimensions())
	}

	return nil
}

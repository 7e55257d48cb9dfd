package cli

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/recall-labs/recall-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask a question grounded in your observations",
	Long: `Ask a question answered with your stored observations as context.

With a question argument, prints a single answer and exits. Without one,
opens an interactive chat session.`,
	Args: cobra.ArbitraryArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{needLLM: true, needHistory: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) > 0 {
		return askOnce(cmd, a, strings.Join(args, " "))
	}
	return runChatSession(a)
}

// askOnce answers one question on stdout.
func askOnce(cmd *cobra.Command, a *app, question string) error {
	answer, err := a.chat.Ask(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	cmd.Println(answer.Reply)
	return nil
}

// runChatSession opens the interactive terminal session.
func runChatSession(a *app) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat session: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	model := tui.NewChatModel(a.chat, a.settings.Persona)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat session error: %w", err)
	}
	return nil
}

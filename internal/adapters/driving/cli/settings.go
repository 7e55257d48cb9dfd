package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/recall-labs/recall-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/recall-labs/recall-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/recall-labs/recall-cli/internal/adapters/driven/embedding/openai"
	llmollama "github.com/recall-labs/recall-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/recall-labs/recall-cli/internal/adapters/driven/llm/openai"
	"github.com/recall-labs/recall-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the AI provider, file locations, and chat options.

Use 'settings wizard' for guided setup.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

// allProviders lists the selectable backends in wizard order.
var allProviders = []domain.AIProvider{
	domain.AIProviderOllama,
	domain.AIProviderOpenAI,
}

// defaultModels returns the default embedding and chat models for a provider.
func defaultModels(provider domain.AIProvider) (embedding, chat string) {
	if provider == domain.AIProviderOpenAI {
		return embeddingopenai.DefaultModel, llmopenai.DefaultModel
	}
	return embeddingollama.DefaultModel, llmollama.DefaultModel
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settings := file.LoadSettings(store)

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Provider]")
	cmd.Printf("  Backend: %s\n", settings.Provider.Description())
	cmd.Printf("  Embedding model: %s\n", orDefault(settings.EmbeddingModel, "(provider default)"))
	cmd.Printf("  Chat model: %s\n", orDefault(settings.ChatModel, "(provider default)"))
	if settings.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", orDefault(settings.BaseURL, "(provider default)"))
	}
	if settings.Provider.RequiresAPIKey() {
		if settings.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Println()

	cmd.Println("[Files]")
	cmd.Printf("  Corpus: %s\n", settings.CorpusPath)
	cmd.Printf("  Index: %s\n", settings.IndexPath)
	cmd.Printf("  History: %s\n", settings.HistoryPath)
	cmd.Println()

	cmd.Println("[Chat]")
	cmd.Printf("  Persona: %s\n", settings.Persona)
	cmd.Printf("  Observations per answer: %d\n", settings.TopK)
	cmd.Printf("  Refresh quiet period: %s\n", settings.QuietPeriod)
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'recall settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settings := file.LoadSettings(store)
	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Recall Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	// Step 1: provider
	cmd.Println("Step 1: Select AI Provider")
	cmd.Println("--------------------------")
	for i, p := range allProviders {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(allProviders), 1)
	settings.Provider = allProviders[idx-1]

	defaultEmbedding, defaultChat := defaultModels(settings.Provider)

	if settings.Provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		settings.APIKey = readPassword()
		cmd.Println()
		if settings.APIKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	// Step 2: models
	cmd.Println("\nStep 2: Models")
	cmd.Println("--------------")
	cmd.Printf("Embedding model [%s]: ", defaultEmbedding)
	if model := readLine(reader); model != "" {
		settings.EmbeddingModel = model
	} else {
		settings.EmbeddingModel = defaultEmbedding
	}
	cmd.Printf("Chat model [%s]: ", defaultChat)
	if model := readLine(reader); model != "" {
		settings.ChatModel = model
	} else {
		settings.ChatModel = defaultChat
	}

	// Step 3: corpus location
	cmd.Println("\nStep 3: Observations File")
	cmd.Println("-------------------------")
	cmd.Printf("Path to observations file [%s]: ", settings.CorpusPath)
	if path := readLine(reader); path != "" {
		settings.CorpusPath = path
	}

	// Step 4: chat behaviour
	cmd.Println("\nStep 4: Chat")
	cmd.Println("------------")
	cmd.Printf("Assistant persona [%s]: ", settings.Persona)
	if persona := readLine(reader); persona != "" {
		settings.Persona = persona
	}
	cmd.Printf("Observations per answer [%d]: ", settings.TopK)
	if input := readLine(reader); input != "" {
		if topK, err := strconv.Atoi(input); err == nil && topK > 0 {
			settings.TopK = topK
		}
	}

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	if err := file.SaveSettings(store, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	cmd.Println("\nConfiguration Complete!")
	cmd.Println("=======================")
	cmd.Println("All settings are valid and saved.")
	cmd.Println("Run 'recall refresh' to build the index, then 'recall chat' to talk.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read without echo first
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

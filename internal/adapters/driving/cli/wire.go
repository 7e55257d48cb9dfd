package cli

import (
	"fmt"

	"github.com/recall-labs/recall-cli/internal/adapters/driven/config/file"
	corpusfile "github.com/recall-labs/recall-cli/internal/adapters/driven/corpus/file"
	embeddingollama "github.com/recall-labs/recall-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/recall-labs/recall-cli/internal/adapters/driven/embedding/openai"
	llmollama "github.com/recall-labs/recall-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/recall-labs/recall-cli/internal/adapters/driven/llm/openai"
	"github.com/recall-labs/recall-cli/internal/adapters/driven/storage/jsonfile"
	"github.com/recall-labs/recall-cli/internal/adapters/driven/storage/sqlite"
	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/core/services"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// app holds the wired application: adapters on the outside, services in
// the middle. Commands construct one, use what they need, and Close it.
type app struct {
	settings domain.Settings

	configStore *file.ConfigStore
	corpus      *corpusfile.CorpusSource
	store       *jsonfile.ObservationStore
	history     *sqlite.HistoryStore
	embedder    driven.EmbeddingService
	llm         driven.LLMService

	refresh   *services.RefreshService
	retrieval *services.RetrievalService
	chat      *services.ChatService
}

// appOptions controls which optional parts of the app get wired.
type appOptions struct {
	// needLLM requests a chat backend; without it only refresh and
	// retrieval are available.
	needLLM bool

	// needHistory opens the chat transcript database.
	needHistory bool
}

// newApp loads settings and wires services according to opts.
func newApp(opts appOptions) (*app, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	settings := file.LoadSettings(configStore)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings (run 'recall settings wizard'): %w", err)
	}

	a := &app{
		settings:    settings,
		configStore: configStore,
		corpus:      corpusfile.NewCorpusSource(settings.CorpusPath),
		store:       jsonfile.NewObservationStore(settings.IndexPath),
	}

	a.embedder, err = newEmbedder(settings)
	if err != nil {
		return nil, err
	}

	if opts.needLLM {
		a.llm, err = newLLM(settings)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	if opts.needHistory {
		a.history, err = sqlite.NewHistoryStore(settings.HistoryPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open chat history: %w", err)
		}
	}

	a.refresh = services.NewRefreshService(a.corpus, a.store, a.embedder, services.RefreshConfig{
		QuietPeriod: settings.QuietPeriod,
	})
	a.retrieval = services.NewRetrievalService(a.embedder, a.store, services.NewLinearRanker())

	if opts.needLLM {
		// Pass the history store as an untyped nil when it was not opened,
		// so the chat service's nil check works.
		var history driven.ChatHistoryStore
		if a.history != nil {
			history = a.history
		}
		a.chat = services.NewChatService(a.retrieval, a.llm, history, settings.Persona, settings.TopK)
		if prompts, err := file.NewPromptStore(""); err == nil {
			a.chat.SetPromptStore(prompts)
		} else {
			logger.Warn("prompt store unavailable, using built-in prompts: %v", err)
		}
	}

	return a, nil
}

// Close releases everything the app opened, tolerating partial wiring.
func (a *app) Close() {
	if a.refresh != nil {
		if err := a.refresh.Close(); err != nil {
			logger.Warn("close refresh service: %v", err)
		}
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			logger.Warn("close chat history: %v", err)
		}
	}
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			logger.Warn("close llm service: %v", err)
		}
	}
	if a.embedder != nil {
		if err := a.embedder.Close(); err != nil {
			logger.Warn("close embedding service: %v", err)
		}
	}
}

// newEmbedder constructs the embedding backend for the configured provider.
func newEmbedder(settings domain.Settings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return embeddingollama.NewEmbeddingService(embeddingollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.EmbeddingModel,
		}), nil
	case domain.AIProviderOpenAI:
		return embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.EmbeddingModel,
		})
	default:
		return nil, fmt.Errorf("unsupported provider %q", settings.Provider)
	}
}

// newLLM constructs the chat backend for the configured provider.
func newLLM(settings domain.Settings) (driven.LLMService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return llmollama.NewLLMService(llmollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.ChatModel,
		}), nil
	case domain.AIProviderOpenAI:
		return llmopenai.NewLLMService(llmopenai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.ChatModel,
		})
	default:
		return nil, fmt.Errorf("unsupported provider %q", settings.Provider)
	}
}

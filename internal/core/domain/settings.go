package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or chat.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// Default settings values.
const (
	// DefaultQuietPeriod is how long the corpus must stay unchanged before
	// a debounced refresh fires.
	DefaultQuietPeriod = 10 * time.Second

	// DefaultTopK is the number of observations retrieved per query.
	DefaultTopK = 5

	// DefaultPersona is the assistant persona name used in the system prompt.
	DefaultPersona = "Recall"
)

// Settings holds validated application configuration. It is constructed
// explicitly and passed into component constructors; there is no ambient
// global configuration.
type Settings struct {
	// Provider selects the embedding and chat backend.
	Provider AIProvider

	// APIKey is the opaque credential for cloud providers.
	APIKey string

	// BaseURL overrides the provider endpoint. Empty means the provider default.
	BaseURL string

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string

	// ChatModel is the chat/generation model name.
	ChatModel string

	// CorpusPath is the plain-text observations document, one candidate per line.
	CorpusPath string

	// IndexPath is where the embedded observation index is persisted.
	IndexPath string

	// HistoryPath is where the chat transcript database lives.
	HistoryPath string

	// QuietPeriod is the debounce window for corpus changes.
	QuietPeriod time.Duration

	// TopK is how many observations ground each chat turn.
	TopK int

	// Persona is the assistant name injected into the system prompt.
	Persona string
}

// ApplyDefaults fills zero-valued fields with defaults.
func (s *Settings) ApplyDefaults() {
	if s.Provider == "" {
		s.Provider = AIProviderOllama
	}
	if s.QuietPeriod <= 0 {
		s.QuietPeriod = DefaultQuietPeriod
	}
	if s.TopK <= 0 {
		s.TopK = DefaultTopK
	}
	if s.Persona == "" {
		s.Persona = DefaultPersona
	}
}

// Validate checks the settings for consistency.
func (s Settings) Validate() error {
	if !s.Provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidInput, s.Provider)
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return fmt.Errorf("%w: provider %s requires an API key", ErrInvalidInput, s.Provider)
	}
	if s.CorpusPath == "" {
		return fmt.Errorf("%w: corpus path is required", ErrInvalidInput)
	}
	if s.IndexPath == "" {
		return fmt.Errorf("%w: index path is required", ErrInvalidInput)
	}
	if s.QuietPeriod <= 0 {
		return fmt.Errorf("%w: quiet period must be positive", ErrInvalidInput)
	}
	if s.TopK <= 0 {
		return fmt.Errorf("%w: top-k must be positive", ErrInvalidInput)
	}
	return nil
}

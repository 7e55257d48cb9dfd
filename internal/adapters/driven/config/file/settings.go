package file

import (
	"os"
	"path/filepath"
	"time"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
)

// Configuration keys for the settings stored in config.toml.
const (
	KeyProvider       = "ai.provider"
	KeyAPIKey         = "ai.api_key"
	KeyBaseURL        = "ai.base_url"
	KeyEmbeddingModel = "ai.embedding_model"
	KeyChatModel      = "ai.chat_model"
	KeyCorpusPath     = "corpus.path"
	KeyIndexPath      = "index.path"
	KeyHistoryPath    = "history.path"
	KeyQuietSeconds   = "refresh.quiet_period_seconds"
	KeyTopK           = "chat.top_k"
	KeyPersona        = "chat.persona"
)

// LoadSettings reads application settings from the config store, filling
// unset fields with defaults. Paths default to files under the directory
// holding the config file itself.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	settings := domain.Settings{
		Provider:       domain.AIProvider(store.GetString(KeyProvider)),
		APIKey:         store.GetString(KeyAPIKey),
		BaseURL:        store.GetString(KeyBaseURL),
		EmbeddingModel: store.GetString(KeyEmbeddingModel),
		ChatModel:      store.GetString(KeyChatModel),
		CorpusPath:     store.GetString(KeyCorpusPath),
		IndexPath:      store.GetString(KeyIndexPath),
		HistoryPath:    store.GetString(KeyHistoryPath),
		TopK:           store.GetInt(KeyTopK),
		Persona:        store.GetString(KeyPersona),
	}
	if secs := store.GetInt(KeyQuietSeconds); secs > 0 {
		settings.QuietPeriod = time.Duration(secs) * time.Second
	}
	settings.ApplyDefaults()

	dataDir := filepath.Dir(store.Path())
	if settings.CorpusPath == "" {
		settings.CorpusPath = filepath.Join(dataDir, "observations.txt")
	}
	if settings.IndexPath == "" {
		settings.IndexPath = filepath.Join(dataDir, "index.json")
	}
	if settings.HistoryPath == "" {
		settings.HistoryPath = filepath.Join(dataDir, "history.db")
	}

	return expandPaths(settings)
}

// SaveSettings writes the given settings to the config store in one pass.
func SaveSettings(store driven.ConfigStore, settings domain.Settings) error {
	values := map[string]any{
		KeyProvider:       settings.Provider.String(),
		KeyAPIKey:         settings.APIKey,
		KeyBaseURL:        settings.BaseURL,
		KeyEmbeddingModel: settings.EmbeddingModel,
		KeyChatModel:      settings.ChatModel,
		KeyCorpusPath:     settings.CorpusPath,
		KeyIndexPath:      settings.IndexPath,
		KeyHistoryPath:    settings.HistoryPath,
		KeyQuietSeconds:   int(settings.QuietPeriod / time.Second),
		KeyTopK:           settings.TopK,
		KeyPersona:        settings.Persona,
	}
	for key, value := range values {
		if err := store.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// expandPaths resolves a leading ~/ in the path settings so users can
// write portable config files.
func expandPaths(settings domain.Settings) domain.Settings {
	settings.CorpusPath = expandHome(settings.CorpusPath)
	settings.IndexPath = expandHome(settings.IndexPath)
	settings.HistoryPath = expandHome(settings.HistoryPath)
	return settings
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~"+string(os.PathSeparator) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

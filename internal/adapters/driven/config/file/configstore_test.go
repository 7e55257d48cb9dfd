package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("ai.provider", "ollama"))

	val, ok := store.Get("ai.provider")
	require.True(t, ok)
	assert.Equal(t, "ollama", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("chat.persona", "Recall"))
	require.NoError(t, store.Set("chat.top_k", 7))
	require.NoError(t, store.Set("chat.verbose", true))
	require.NoError(t, store.Set("chat.tags", []string{"a", "b"}))

	assert.Equal(t, "Recall", store.GetString("chat.persona"))
	assert.Equal(t, 7, store.GetInt("chat.top_k"))
	assert.True(t, store.GetBool("chat.verbose"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("chat.tags"))
}

func TestConfigStore_MissingKeysReturnZeroValues(t *testing.T) {
	store := newTestConfigStore(t)

	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_WrongTypeReturnsZeroValue(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("key", 42))

	assert.Equal(t, "", store.GetString("key"))
	assert.False(t, store.GetBool("key"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("ai.provider", "openai"))
	require.NoError(t, first.Set("chat.top_k", 3))

	second, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", second.GetString("ai.provider"))
	assert.Equal(t, 3, second.GetInt("chat.top_k"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	config := "[ai]\nprovider = \"ollama\"\n\n[chat]\ntop_k = 9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0o600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", store.GetString("ai.provider"))
	assert.Equal(t, 9, store.GetInt("chat.top_k"))
}

func TestConfigStore_FileIsOwnerOnly(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("ai.api_key", "sk-secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

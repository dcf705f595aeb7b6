package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, ConfigFile), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".botly", ConfigFile), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := NewConfigStore(filepath.Join(blocker, "config"))

	assert.Error(t, err)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("[[[ not toml"), 0600))

	_, err := NewConfigStore(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ConfigFile)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "gpt-4o-mini"))
	require.NoError(t, store.Set("chunk.size", 500))
	require.NoError(t, store.Set("retrieval.temperature", 0.7))
	require.NoError(t, store.Set("crawl.delay", 2*time.Second))
	require.NoError(t, store.Set("crawl.enabled", true))
	require.NoError(t, store.Set("crawl.exclude", []string{"/login"}))

	assert.Equal(t, "gpt-4o-mini", store.GetString("llm.model"))
	assert.Equal(t, 500, store.GetInt("chunk.size"))
	assert.InDelta(t, 0.7, store.GetFloat("retrieval.temperature"), 1e-9)
	assert.Equal(t, 2*time.Second, store.GetDuration("crawl.delay"))
	assert.True(t, store.GetBool("crawl.enabled"))
	assert.Equal(t, []string{"/login"}, store.GetStringSlice("crawl.exclude"))
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.Zero(t, store.GetDuration("missing"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Set_EmptyKey(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("", "x"))
}

func TestConfigStore_Persistence_NestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("embedding.batch_size", 32))
	require.NoError(t, store.Set("retrieval.temperature", 0.2))
	require.NoError(t, store.Set("crawl.delay", 1500*time.Millisecond))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[embedding]")
	assert.Contains(t, string(raw), "[crawl]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", reloaded.GetString("embedding.provider"))
	assert.Equal(t, 32, reloaded.GetInt("embedding.batch_size"))
	assert.InDelta(t, 0.2, reloaded.GetFloat("retrieval.temperature"), 1e-9)
	assert.Equal(t, 1500*time.Millisecond, reloaded.GetDuration("crawl.delay"))
}

func TestConfigStore_Load_HandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[crawl]
max_pages = 10
delay = 3

[retrieval]
top_k = 6
temperature = 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 10, store.GetInt("crawl.max_pages"))
	assert.Equal(t, 3*time.Second, store.GetDuration("crawl.delay"))
	assert.Equal(t, 6, store.GetInt("retrieval.top_k"))
	assert.InDelta(t, 1.0, store.GetFloat("retrieval.temperature"), 1e-9)
}

func TestConfigStore_Load_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), nil, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_Load_PicksUpExternalEdits(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "a"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("[llm]\nmodel = \"b\"\n"), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, "b", store.GetString("llm.model"))
}

func TestConfigStore_Save_ConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm", "scalar"))

	err = store.Set("llm.model", "x")

	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_WriteError(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0700) })
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	assert.Error(t, store.Set("k", "v"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("bots.b%d", n)
			assert.NoError(t, store.Set(key, n))
			_ = store.GetInt(key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("bots.b%d", i)))
	}
}

func TestNestMap_RoundTrip(t *testing.T) {
	flat := map[string]any{
		"a.b.c": 1,
		"a.d":   "x",
		"e":     true,
	}

	nested, err := nestMap(flat)
	require.NoError(t, err)

	assert.Equal(t, flat, flattenMap(nested, ""))
}

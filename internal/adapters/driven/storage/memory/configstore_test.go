package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "llama3.2"))
	require.NoError(t, store.Set("llm.model", "gpt-4o-mini"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", val)
}

func TestNewConfigStoreWith_CopiesSeed(t *testing.T) {
	seed := map[string]any{"retrieval.top_k": 6}
	store := NewConfigStoreWith(seed)

	seed["retrieval.top_k"] = 1

	assert.Equal(t, 6, store.GetInt("retrieval.top_k"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStoreWith(map[string]any{
		"s":     "text",
		"i":     int64(9),
		"f":     0.3,
		"d":     "750ms",
		"dsecs": 2,
		"b":     true,
		"list":  []any{"a", 2, "b"},
	})

	assert.Equal(t, "text", store.GetString("s"))
	assert.Equal(t, 9, store.GetInt("i"))
	assert.InDelta(t, 0.3, store.GetFloat("f"), 1e-9)
	assert.Equal(t, 750*time.Millisecond, store.GetDuration("d"))
	assert.Equal(t, 2*time.Second, store.GetDuration("dsecs"))
	assert.True(t, store.GetBool("b"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("list"))
}

func TestConfigStore_WrongTypes(t *testing.T) {
	store := NewConfigStoreWith(map[string]any{"k": struct{}{}})

	assert.Empty(t, store.GetString("k"))
	assert.Zero(t, store.GetInt("k"))
	assert.Zero(t, store.GetFloat("k"))
	assert.Zero(t, store.GetDuration("k"))
	assert.False(t, store.GetBool("k"))
	assert.Nil(t, store.GetStringSlice("k"))
}

func TestConfigStore_NoOps(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n)
			_ = store.Set(key, n)
			_ = store.GetInt(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 49, store.GetInt("k49"))
}

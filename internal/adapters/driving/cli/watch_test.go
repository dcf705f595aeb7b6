package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/botly/internal/core/domain"
)

func TestIsRetrainEvent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "guide.md")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"write and chmod", fsnotify.Event{Name: target, Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: target, Op: fsnotify.Remove}, false},
		{"rename", fsnotify.Event{Name: target, Op: fsnotify.Rename}, false},
		{"sibling file", fsnotify.Event{Name: target + ".swp", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetrainEvent(tt.event, target))
		})
	}
}

func TestWatchFile_RetrainsAfterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, func(context.Context) {
			calls.Add(1)
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0600))
	require.NoError(t, os.WriteFile(path, []byte("v3"), 0600))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchFile did not stop after cancel")
	}
}

func TestWatchFile_ZeroDebounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 0, func(context.Context) { calls.Add(1) })
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0600))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchFile did not stop after cancel")
	}
}

func TestWatchFile_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0600))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var calls atomic.Int32
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.md"), []byte("x"), 0600)
	}()

	err := watchFile(ctx, path, 20*time.Millisecond, func(context.Context) { calls.Add(1) })

	require.NoError(t, err)
	assert.Zero(t, calls.Load())
}

func TestWatchCmd_MissingFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("", "watch", "1", filepath.Join(t.TempDir(), "missing.pdf"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWatchCmd_NegativeDebounce(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	path := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0600))

	_, err := executeCommand("", "watch", "1", path, "--debounce=-1s")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ts.training.requests)
}

func TestWatchCmd_Flags(t *testing.T) {
	debounce := watchCmd.Flags().Lookup("debounce")
	require.NotNil(t, debounce)
	assert.Equal(t, defaultDebounce.String(), debounce.DefValue)
	assert.NotNil(t, watchCmd.Flags().Lookup("initial"))
}

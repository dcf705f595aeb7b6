package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/logger"
)

// Workspace owns the on-disk index directories, one per (user, chatbot).
//
// Writers build into a hidden sibling directory and swap it in under the
// chatbot's write lock; readers hold the read lock while loading, so a reader
// sees either the old index or the new one, never a partial directory.
type Workspace struct {
	root string

	mu    sync.Mutex
	locks map[domain.ChatbotKey]*sync.RWMutex
}

// NewWorkspace creates a workspace rooted at root, creating it if needed.
func NewWorkspace(root string) (*Workspace, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty workspace root", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &Workspace{
		root:  root,
		locks: make(map[domain.ChatbotKey]*sync.RWMutex),
	}, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.root
}

// Dir returns the live index directory for key.
func (w *Workspace) Dir(key domain.ChatbotKey) string {
	return filepath.Join(append([]string{w.root}, key.PathSegments()...)...)
}

// Replace builds a new index directory with build and atomically swaps it
// in for key. build receives an empty directory and must fill it. The live
// directory is untouched when build or ctx fails.
func (w *Workspace) Replace(ctx context.Context, key domain.ChatbotKey, build func(dir string) error) error {
	if err := key.Validate(); err != nil {
		return err
	}

	live := w.Dir(key)
	parent := filepath.Dir(live)
	if err := os.MkdirAll(parent, 0700); err != nil {
		return fmt.Errorf("create user directory: %w", err)
	}

	id := strconv.FormatInt(key.ChatbotID, 10)
	tmp := filepath.Join(parent, "."+id+".tmp-"+uuid.NewString())
	if err := os.Mkdir(tmp, 0700); err != nil {
		return fmt.Errorf("create build directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := build(tmp); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := w.lock(key)
	lock.Lock()
	old, err := w.swap(live, tmp, filepath.Join(parent, "."+id+".old-"+uuid.NewString()))
	lock.Unlock()
	if err != nil {
		return err
	}

	if old != "" {
		if err := os.RemoveAll(old); err != nil {
			logger.Warn("Failed to remove previous index for chatbot %s: %v", key, err)
		}
	}
	logger.Debug("Replaced index for chatbot %s", key)
	return nil
}

// swap renames live aside and tmp into place, restoring live on failure.
// It returns the path the previous directory was moved to, if any.
func (w *Workspace) swap(live, tmp, old string) (string, error) {
	if err := os.Rename(live, old); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("move previous index aside: %w", err)
		}
		old = ""
	}

	if err := os.Rename(tmp, live); err != nil {
		if old != "" {
			if rerr := os.Rename(old, live); rerr != nil {
				logger.Error("Failed to restore previous index %s: %v", live, rerr)
			}
		}
		return "", fmt.Errorf("swap in new index: %w", err)
	}
	return old, nil
}

// Read runs fn with the live directory for key under the read lock.
// Returns ErrNoData if the chatbot has no index directory.
func (w *Workspace) Read(ctx context.Context, key domain.ChatbotKey, fn func(dir string) error) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := w.lock(key)
	lock.RLock()
	defer lock.RUnlock()

	dir := w.Dir(key)
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: chatbot %s", domain.ErrNoData, key)
	}
	if err != nil {
		return fmt.Errorf("stat index directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrIndexCorrupt, dir)
	}

	return fn(dir)
}

// Remove deletes the index directory for key. Removing a missing
// directory is not an error.
func (w *Workspace) Remove(ctx context.Context, key domain.ChatbotKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := w.lock(key)
	lock.Lock()
	defer lock.Unlock()

	if err := os.RemoveAll(w.Dir(key)); err != nil {
		return fmt.Errorf("remove index directory: %w", err)
	}
	return nil
}

// Exists reports whether key has a live index directory.
func (w *Workspace) Exists(key domain.ChatbotKey) bool {
	lock := w.lock(key)
	lock.RLock()
	defer lock.RUnlock()

	info, err := os.Stat(w.Dir(key))
	return err == nil && info.IsDir()
}

func (w *Workspace) lock(key domain.ChatbotKey) *sync.RWMutex {
	w.mu.Lock()
	defer w.mu.Unlock()

	l, ok := w.locks[key]
	if !ok {
		l = &sync.RWMutex{}
		w.locks[key] = l
	}
	return l
}

package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompt templates from user-editable files on disk,
// falling back to the built-in templates.
//
// Initialisation is lazy: the directory and default files are only written
// on the first Load, never in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

var defaultPrompts = map[string]string{
	driven.PromptAnswer:  domain.DefaultAnswerTemplate,
	driven.PromptPersona: domain.DefaultPersonaTemplate,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.botly/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".botly", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
//
// A file whose %s placeholder count differs from the built-in template is
// ignored in favour of the built-in one, so an edited prompt can never
// produce a garbled request.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	fallback, known := defaultPrompts[name]
	if s.initErr != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	if known && placeholders(prompt) != placeholders(fallback) {
		prompt = fallback
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk. Only trailing line breaks are
// stripped; the persona template relies on its trailing space.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func placeholders(template string) int {
	return strings.Count(template, "%s")
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# Botly Prompts

This directory contains the prompt templates used when a chatbot answers.

## Files

- ` + "`answer.txt`" + ` - Wraps the retrieved context and the question
- ` + "`persona.txt`" + ` - Introduces the chatbot's name, description and instructions

## Format Placeholders

Templates use Go fmt ` + "`%s`" + ` placeholders, filled in order:

- answer: the retrieved context, then the question
- persona: the name, the description, then the instructions clause

A file with a different number of placeholders is ignored and the built-in
template is used instead. Changes take effect on the next command.
`
	return os.WriteFile(path, []byte(content), 0600)
}

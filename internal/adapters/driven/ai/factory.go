// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/botly/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/botly/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/botly/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/botly/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/botly/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/botly/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service selected by settings.
// An empty provider selects the offline hashing embedder.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		settings = &domain.EmbeddingSettings{}
	}

	switch settings.Provider {
	case domain.AIProviderHashing, "":
		return hashing.NewEmbeddingService(domain.EmbeddingDimensions()[settings.Model]), nil

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use hashing, ollama or openai",
			domain.ErrUnsupportedType)

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateLLMService creates the LLM service selected by settings.
// Hosted providers without a key fail with domain.ErrAuthRequired.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, domain.ErrLLMUnavailable
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: LLM provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// NewLLMFactory returns a factory that builds LLM services from settings,
// substituting a per-request API key when one is supplied.
func NewLLMFactory(settings domain.LLMSettings) driven.LLMFactory {
	return func(apiKey string) (driven.LLMService, error) {
		s := settings
		if apiKey != "" {
			s.APIKey = apiKey
		}
		return CreateLLMService(&s)
	}
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for use in the settings commands to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

package ai

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks that a provider can serve its role in botly
// (embedding chatbot documents or answering questions) and that it responds.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding rejects providers without an embeddings API, then pings
// the configured one.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config != nil && config.Provider != "" && !slices.Contains(domain.AllEmbeddingProviders(), config.Provider) {
		return fmt.Errorf("%w: %s cannot embed chatbot documents", domain.ErrInvalidInput, config.Provider)
	}
	return ValidateEmbeddingConfig(config)
}

// ValidateLLM rejects providers that cannot generate answers, then pings the
// configured one. A missing API key is not an error since keys may be
// supplied per question.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config != nil && config.Provider != "" && !slices.Contains(domain.AllLLMProviders(), config.Provider) {
		return fmt.Errorf("%w: %s cannot answer questions", domain.ErrInvalidInput, config.Provider)
	}
	return ValidateLLMConfig(config)
}

package driven

import "github.com/custodia-labs/botly/internal/core/domain"

// AIConfigValidator checks the providers chosen for embedding chatbot
// documents and for answering questions.
type AIConfigValidator interface {
	// ValidateEmbedding fails for providers without embeddings and for
	// configured providers that do not respond. Unset settings are valid.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM fails for providers that cannot generate answers and for
	// configured providers that do not respond. A blank API key is valid.
	ValidateLLM(config *domain.LLMSettings) error
}

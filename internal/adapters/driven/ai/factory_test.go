package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/botly/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.EmbeddingSettings
		wantModel string
		wantDims  int
		wantErr   error
	}{
		{
			name:      "nil settings selects hashing",
			settings:  nil,
			wantModel: "fnv-hashing-384",
			wantDims:  384,
		},
		{
			name:      "hashing provider",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderHashing, Model: "fnv-hashing-384"},
			wantModel: "fnv-hashing-384",
			wantDims:  384,
		},
		{
			name:      "ollama provider",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "all-minilm"},
			wantModel: "all-minilm",
			wantDims:  384,
		},
		{
			name:      "openai provider",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk-test", Model: "text-embedding-3-small"},
			wantModel: "text-embedding-3-small",
			wantDims:  1536,
		},
		{
			name:     "openai without key",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			wantErr:  domain.ErrAuthRequired,
		},
		{
			name:     "anthropic has no embeddings",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantErr:  domain.ErrUnsupportedType,
		},
		{
			name:     "unknown provider",
			settings: &domain.EmbeddingSettings{Provider: "cohere"},
			wantErr:  domain.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.Equal(t, tt.wantDims, svc.Dimensions())
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	svc, err := CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama})
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", svc.ModelName())

	svc, err = CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, svc)

	_, err = CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOpenAI})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	_, err = CreateLLMService(&domain.LLMSettings{Provider: domain.AIProviderHashing})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = CreateLLMService(nil)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestNewLLMFactory(t *testing.T) {
	factory := NewLLMFactory(domain.LLMSettings{Provider: domain.AIProviderOpenAI, Model: "gpt-4o-mini"})

	_, err := factory("")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	_, err = factory("bad key with spaces")
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)

	svc, err := factory("sk-request")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", svc.ModelName())

	withDefault := NewLLMFactory(domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk-default"})
	svc, err = withDefault("")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestValidateLLMConfig_Ollama(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	err := ValidateLLMConfig(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})
	assert.NoError(t, err)
}

func TestValidateEmbeddingConfig_OpenAIRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := ValidateEmbeddingConfig(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "sk-test",
		BaseURL:  srv.URL,
	})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestValidate_Unconfigured(t *testing.T) {
	assert.NoError(t, ValidateEmbeddingConfig(nil))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{}))
}

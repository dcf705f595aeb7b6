package services

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
	"github.com/custodia-labs/botly/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedBatchSize = "embedding.batch_size"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyCrawlMaxPages  = "crawl.max_pages"
	keyCrawlDelay     = "crawl.delay"
	keyCrawlTimeout   = "crawl.fetch_timeout"
	keyCrawlBudget    = "crawl.budget"
	keyChunkSize      = "chunk.size"
	keyChunkOverlap   = "chunk.overlap"
	keyRetrievalTopK  = "retrieval.top_k"
	keyRetrievalTemp  = "retrieval.temperature"
	keyStorageRoot    = "storage.root"
)

// Environment variables consulted when no API key is configured.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

const defaultOllamaURL = "http://localhost:11434"

type valueKind int

const (
	kindString valueKind = iota
	kindProvider
	kindInt
	kindFloat
	kindDuration
)

// settableKeys lists every key accepted by SetValue with its value type.
var settableKeys = map[string]valueKind{
	keyEmbedProvider:  kindProvider,
	keyEmbedModel:     kindString,
	keyEmbedBaseURL:   kindString,
	keyEmbedAPIKey:    kindString,
	keyEmbedBatchSize: kindInt,
	keyLLMProvider:    kindProvider,
	keyLLMModel:       kindString,
	keyLLMBaseURL:     kindString,
	keyLLMAPIKey:      kindString,
	keyCrawlMaxPages:  kindInt,
	keyCrawlDelay:     kindDuration,
	keyCrawlTimeout:   kindDuration,
	keyCrawlBudget:    kindDuration,
	keyChunkSize:      kindInt,
	keyChunkOverlap:   kindInt,
	keyRetrievalTopK:  kindInt,
	keyRetrievalTemp:  kindFloat,
	keyStorageRoot:    kindString,
}

// SettingsKeys returns the keys accepted by SetValue, sorted.
func SettingsKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithGetenv replaces the environment lookup used for API key fallbacks.
func WithGetenv(getenv func(string) string) SettingsOption {
	return func(s *SettingsService) {
		if getenv != nil {
			s.getenv = getenv
		}
	}
}

// NewSettingsService creates a new settings service.
func NewSettingsService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	opts ...SettingsOption,
) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves current application settings.
// API keys fall back to the provider's environment variable.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:  s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			BaseURL:   s.configStore.GetString(keyEmbedBaseURL),
			APIKey:    s.configStore.GetString(keyEmbedAPIKey),
			BatchSize: s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Crawl: domain.CrawlSettings{
			MaxPages:     s.getInt(keyCrawlMaxPages, defaults.Crawl.MaxPages),
			Delay:        s.getDuration(keyCrawlDelay, defaults.Crawl.Delay),
			FetchTimeout: s.getDuration(keyCrawlTimeout, defaults.Crawl.FetchTimeout),
			Budget:       s.getDuration(keyCrawlBudget, defaults.Crawl.Budget),
		},
		Chunk: domain.ChunkSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunk.Size),
			Overlap: s.configStore.GetInt(keyChunkOverlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:        s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			Temperature: s.getFloat(keyRetrievalTemp, defaults.Retrieval.Temperature),
		},
		Storage: domain.StorageSettings{
			Root: s.configStore.GetString(keyStorageRoot),
		},
	}

	// A model only makes sense for the provider it was chosen with, so an
	// unset model follows the provider's default.
	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[settings.Embedding.Provider])
	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings.
// API keys are only written when set, so an environment fallback is never
// copied into the config file by accident of a round trip.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyCrawlMaxPages, settings.Crawl.MaxPages},
		{keyCrawlDelay, settings.Crawl.Delay},
		{keyCrawlTimeout, settings.Crawl.FetchTimeout},
		{keyCrawlBudget, settings.Crawl.Budget},
		{keyChunkSize, settings.Chunk.Size},
		{keyChunkOverlap, settings.Chunk.Overlap},
		{keyRetrievalTopK, settings.Retrieval.TopK},
		{keyRetrievalTemp, settings.Retrieval.Temperature},
		{keyStorageRoot, settings.Storage.Root},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.envAPIKey(settings.Embedding.Provider) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envAPIKey(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrAuthRequired, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}
	settings.Embedding.BaseURL = localBaseURL(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if !slices.Contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support text generation", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.BaseURL = localBaseURL(provider, settings.LLM.BaseURL)
	// An LLM key may be supplied per question, so an empty default is allowed.
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetValue parses value according to key's type and stores it.
// Unknown keys and unparsable values return ErrInvalidInput.
func (s *SettingsService) SetValue(key, value string) error {
	kind, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindProvider:
		p := domain.AIProvider(value)
		if !p.IsValid() {
			return fmt.Errorf("%w: %s: unknown provider %q", domain.ErrInvalidInput, key, value)
		}
		parsed = p.String()
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s: expected a non-negative integer, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s: expected a non-negative number, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = f
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %s: expected a duration such as 1s or 500ms, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = d
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Validate checks the embedding configuration is usable for training.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if settings.Chunk.Size <= 0 {
		return fmt.Errorf("%w: chunk.size must be positive", domain.ErrInvalidInput)
	}
	if settings.Chunk.Overlap >= settings.Chunk.Size {
		return fmt.Errorf("%w: chunk.overlap must be smaller than chunk.size", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

// getDuration keeps an explicit zero, which disables a delay or budget.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	d := s.configStore.GetDuration(key)
	if d == 0 && key == keyCrawlDelay {
		// WithDefaults treats zero as unset; a negative delay means none.
		return -1
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIAPIKey)
	case domain.AIProviderAnthropic:
		return s.getenv(EnvAnthropicAPIKey)
	default:
		return ""
	}
}

// localBaseURL keeps a configured URL for local providers and clears it for cloud ones.
func localBaseURL(provider domain.AIProvider, current string) string {
	switch {
	case provider == domain.AIProviderOllama && current == "":
		return defaultOllamaURL
	case provider == domain.AIProviderOllama:
		return current
	default:
		return ""
	}
}

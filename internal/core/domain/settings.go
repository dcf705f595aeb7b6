package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderHashing is the built-in offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// BatchSize is how many chunks are embedded per request.
	BatchSize int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the default API key (for OpenAI/Anthropic). A per-question
	// key takes precedence.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderHashing {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// CrawlSettings bounds website crawls.
type CrawlSettings struct {
	MaxPages     int
	Delay        time.Duration
	FetchTimeout time.Duration

	// Budget caps total crawl time. Zero means unbounded.
	Budget time.Duration
}

// Options converts the settings into per-crawl options.
func (c CrawlSettings) Options() CrawlOptions {
	return CrawlOptions{
		MaxPages:     c.MaxPages,
		Delay:        c.Delay,
		FetchTimeout: c.FetchTimeout,
		Budget:       c.Budget,
	}
}

// ChunkSettings controls how extracted text is split.
type ChunkSettings struct {
	Size    int
	Overlap int
}

// RetrievalSettings controls query-time retrieval and synthesis.
type RetrievalSettings struct {
	TopK        int
	Temperature float64
}

// StorageSettings locates on-disk state.
type StorageSettings struct {
	// Root is the directory holding one index directory per chatbot.
	Root string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Crawl     CrawlSettings
	Chunk     ChunkSettings
	Retrieval RetrievalSettings
	Storage   StorageSettings
}

// Defaults used when a setting is absent.
const (
	DefaultChunkSize          = 500
	DefaultTopK               = 4
	DefaultTemperature        = 0.7
	DefaultEmbeddingBatchSize = 64
	DefaultHashingDimensions  = 384
)

// DefaultAppSettings returns settings with sensible defaults.
// Embeddings default to the offline hashing embedder so training works
// without any provider; the LLM defaults to OpenAI and needs a key.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:  AIProviderHashing,
			Model:     DefaultEmbeddingModels()[AIProviderHashing],
			BatchSize: DefaultEmbeddingBatchSize,
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
		},
		Crawl: DefaultCrawlOptions().Settings(),
		Chunk: ChunkSettings{
			Size: DefaultChunkSize,
		},
		Retrieval: RetrievalSettings{
			TopK:        DefaultTopK,
			Temperature: DefaultTemperature,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHashing,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHashing: "fnv-hashing-384",
		AIProviderOllama:  "all-minilm",
		AIProviderOpenAI:  "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"fnv-hashing-384": DefaultHashingDimensions,
		// Ollama models
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so processors can be added without
// modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor builds the pipeline configuration for chunk settings.
func PipelineConfigFor(c ChunkSettings) PipelineConfig {
	size := c.Size
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := c.Overlap
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": size,
				"overlap":    overlap,
			},
		},
	}
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfigFor(ChunkSettings{Size: DefaultChunkSize})
}

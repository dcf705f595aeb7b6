package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/botly/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
	opts     []driven.GenerateOptions
	closed   bool
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return m.response, m.err
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return m.err
}

func (m *mockLLMService) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockLLMService) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// llmFactoryFor returns a factory handing out llm and recording the keys it was asked for.
func llmFactoryFor(llm *mockLLMService, keys *[]string) driven.LLMFactory {
	return func(apiKey string) (driven.LLMService, error) {
		if keys != nil {
			*keys = append(*keys, apiKey)
		}
		return llm, nil
	}
}

// countingEmbedder wraps the hashing embedder, counting batch calls and
// optionally reporting a different model name.
type countingEmbedder struct {
	*hashing.EmbeddingService
	mu       sync.Mutex
	batches  []int
	model    string
	batchErr error
	embedErr error
}

func newCountingEmbedder() *countingEmbedder {
	return &countingEmbedder{EmbeddingService: hashing.NewEmbeddingService(64)}
}

func (e *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.batches = append(e.batches, len(texts))
	e.mu.Unlock()
	if e.batchErr != nil {
		return nil, e.batchErr
	}
	return e.EmbeddingService.EmbedBatch(ctx, texts)
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.embedErr != nil {
		return nil, e.embedErr
	}
	return e.EmbeddingService.Embed(ctx, text)
}

func (e *countingEmbedder) ModelName() string {
	if e.model != "" {
		return e.model
	}
	return e.EmbeddingService.ModelName()
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
	embedding    *domain.EmbeddingSettings
	llm          *domain.LLMSettings
}

func (m *mockAIValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	m.embedding = config
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(config *domain.LLMSettings) error {
	m.llm = config
	return m.llmErr
}

// stubCrawler implements driven.SiteCrawler with canned pages.
type stubCrawler struct {
	result *domain.CrawlResult
	err    error
	urls   []string
	opts   []domain.CrawlOptions

	// during runs mid-crawl, standing in for concurrent edits.
	during func()
}

func (c *stubCrawler) Crawl(_ context.Context, startURL string, opts domain.CrawlOptions) (*domain.CrawlResult, error) {
	c.urls = append(c.urls, startURL)
	c.opts = append(c.opts, opts)
	if c.during != nil {
		c.during()
	}
	if c.err != nil {
		return nil, c.err
	}
	if c.result == nil {
		return &domain.CrawlResult{}, nil
	}
	return c.result, nil
}

// failingAnswerStore implements driven.AnswerStore and always fails.
type failingAnswerStore struct{}

var errStoreDown = errors.New("store down")

func (failingAnswerStore) Record(_ context.Context, _ *domain.AnswerRecord) error {
	return errStoreDown
}

func (failingAnswerStore) List(_ context.Context, _ domain.ChatbotKey, _ int) ([]domain.AnswerRecord, error) {
	return nil, errStoreDown
}

func (failingAnswerStore) DeleteByChatbot(_ context.Context, _ domain.ChatbotKey) error {
	return errStoreDown
}

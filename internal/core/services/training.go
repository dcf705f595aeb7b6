package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
	"github.com/custodia-labs/botly/internal/core/ports/driving"
	"github.com/custodia-labs/botly/internal/logger"
)

// Ensure TrainingService implements the interface.
var _ driving.TrainingService = (*TrainingService)(nil)

// TrainingService rebuilds a chatbot's index from an uploaded file or website.
type TrainingService struct {
	chatbots  driven.ChatbotStore
	extractor *Extractor
	pipeline  driven.PostProcessorPipeline
	embedder  driven.EmbeddingService
	indexes   driven.IndexStore
	workspace *Workspace

	provider  domain.AIProvider
	batchSize int
	crawl     domain.CrawlOptions
	now       func() time.Time
}

// TrainingOption configures a TrainingService.
type TrainingOption func(*TrainingService)

// WithBatchSize sets how many chunks are embedded per request.
func WithBatchSize(n int) TrainingOption {
	return func(s *TrainingService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithCrawlDefaults sets the crawl bounds used when a request leaves them unset.
func WithCrawlDefaults(opts domain.CrawlOptions) TrainingOption {
	return func(s *TrainingService) {
		s.crawl = opts
	}
}

// WithEmbeddingProvider records the provider in every index manifest.
func WithEmbeddingProvider(p domain.AIProvider) TrainingOption {
	return func(s *TrainingService) {
		s.provider = p
	}
}

// NewTrainingService creates a new training service.
func NewTrainingService(
	chatbots driven.ChatbotStore,
	extractor *Extractor,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	indexes driven.IndexStore,
	workspace *Workspace,
	opts ...TrainingOption,
) *TrainingService {
	s := &TrainingService{
		chatbots:  chatbots,
		extractor: extractor,
		pipeline:  pipeline,
		embedder:  embedder,
		indexes:   indexes,
		workspace: workspace,
		batchSize: domain.DefaultEmbeddingBatchSize,
		crawl:     domain.DefaultCrawlOptions(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Train extracts, chunks and embeds the request's sources and replaces the
// chatbot's index. File text comes before website text when both are given.
//
//nolint:gocyclo // Sequential pipeline with one exit per failed stage
func (s *TrainingService) Train(ctx context.Context, req domain.TrainRequest) (*domain.TrainResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	if _, err := s.chatbots.Get(ctx, req.Key); err != nil {
		return nil, fmt.Errorf("get chatbot: %w", err)
	}

	start := s.now()
	logger.Section("Training chatbot " + req.Key.String())

	// 1. Extract text from each source
	var (
		parts     []string
		pages     int
		truncated bool
	)
	if req.File != "" {
		ex, err := s.extractor.ExtractFile(ctx, req.File)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(ex.Document.Content) != "" {
			parts = append(parts, ex.Document.Content)
		}
		pages += ex.Pages
	}
	if req.Website != "" {
		ex, err := s.extractor.ExtractWebsite(ctx, req.Website, s.crawlOptions(req.Crawl))
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(ex.Document.Content) != "" {
			parts = append(parts, ex.Document.Content)
		}
		pages += ex.Pages
		truncated = ex.Truncated
	}

	source, dataType := req.DataSource()
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoContent, source)
	}
	text := strings.Join(parts, "\n\n")

	// 2. Chunk
	chunks, err := s.pipeline.Process(ctx, &domain.Document{URI: source, Content: text})
	if err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoContent, source)
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	logger.Info("Split %d characters into %d chunks", utf8.RuneCountInString(text), len(chunks))

	// 3. Embed
	vectors, err := s.embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	// 4. Build; a consistency failure aborts before anything is written
	manifest := domain.IndexManifest{
		FormatVersion: domain.IndexFormatVersion,
		Provider:      s.provider,
		Model:         s.embedder.ModelName(),
		Dimensions:    len(vectors[0]),
		Count:         len(vectors),
		CreatedAt:     s.now().UTC(),
	}
	idx, err := s.indexes.Build(vectors, texts, manifest)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	// 5. Swap the new index in
	err = s.workspace.Replace(ctx, req.Key, func(dir string) error {
		return s.indexes.Persist(ctx, idx, dir)
	})
	if err != nil {
		return nil, fmt.Errorf("persist index: %w", err)
	}

	// 6. Record the upload against the chatbot
	if err := s.markTrained(ctx, req.Key, source, dataType, manifest.Model); err != nil {
		s.discard(ctx, req.Key)
		return nil, fmt.Errorf("update chatbot: %w", err)
	}

	result := &domain.TrainResult{
		Chunks:     len(chunks),
		Characters: utf8.RuneCountInString(text),
		Pages:      pages,
		Model:      manifest.Model,
		Dimensions: manifest.Dimensions,
		Duration:   s.now().Sub(start),
		Truncated:  truncated,
	}
	logger.Info("Trained chatbot %s: %d chunks, %d dimensions (%s)",
		req.Key, result.Chunks, result.Dimensions, result.Model)
	return result, nil
}

// markTrained re-reads the chatbot so edits made while training ran are kept,
// then sets only the training fields.
func (s *TrainingService) markTrained(
	ctx context.Context,
	key domain.ChatbotKey,
	source string,
	dataType domain.DataType,
	model string,
) error {
	bot, err := s.chatbots.Get(ctx, key)
	if err != nil {
		return err
	}
	trained := s.now().UTC()
	bot.HasData = true
	bot.DataSource = source
	bot.DataType = dataType
	bot.EmbeddingModel = model
	bot.LastTrained = &trained
	return s.chatbots.Save(ctx, bot)
}

// discard removes an index whose chatbot could not be updated, so a chatbot
// deleted mid-training leaves nothing behind.
func (s *TrainingService) discard(ctx context.Context, key domain.ChatbotKey) {
	if err := s.workspace.Remove(context.WithoutCancel(ctx), key); err != nil {
		logger.Warn("Failed to remove index for chatbot %s: %v", key, err)
	}
}

// embed embeds texts in batches, preserving order.
func (s *TrainingService) embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+s.batchSize, len(texts))

		batch, err := s.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: embedded %d of %d chunks", domain.ErrInvalidInput, len(batch), end-start)
		}
		vectors = append(vectors, batch...)
		logger.Debug("Embedded %d/%d chunks", len(vectors), len(texts))
	}
	return vectors, nil
}

// crawlOptions fills unset request bounds from the service defaults.
func (s *TrainingService) crawlOptions(req domain.CrawlOptions) domain.CrawlOptions {
	opts := req
	if opts.MaxPages <= 0 {
		opts.MaxPages = s.crawl.MaxPages
	}
	if opts.Delay == 0 {
		opts.Delay = s.crawl.Delay
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = s.crawl.FetchTimeout
	}
	if opts.Budget == 0 {
		opts.Budget = s.crawl.Budget
	}
	return opts.WithDefaults()
}

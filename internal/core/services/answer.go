package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
	"github.com/custodia-labs/botly/internal/core/ports/driving"
	"github.com/custodia-labs/botly/internal/logger"
)

// Ensure AnswerService implements the interfaces.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// AnswerService answers questions by retrieving chunks from a chatbot's
// index and asking the LLM to answer from them.
//
// The index is loaded from disk on every question; nothing is cached
// between requests.
type AnswerService struct {
	workspace *Workspace
	indexes   driven.IndexStore
	embedder  driven.EmbeddingService
	llm       driven.LLMFactory
	provider  domain.AIProvider

	chatbots driven.ChatbotStore
	prompts  driven.PromptStore
	answers  driven.AnswerStore

	topK        int
	temperature float64
	maxTokens   int
	now         func() time.Time
}

// AnswerOption configures an AnswerService.
type AnswerOption func(*AnswerService)

// WithTopK sets how many chunks are retrieved per question.
func WithTopK(k int) AnswerOption {
	return func(s *AnswerService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithTemperature sets the LLM sampling temperature.
func WithTemperature(t float64) AnswerOption {
	return func(s *AnswerService) {
		if t >= 0 {
			s.temperature = t
		}
	}
}

// WithMaxTokens caps the answer length. Zero leaves it to the provider.
func WithMaxTokens(n int) AnswerOption {
	return func(s *AnswerService) {
		s.maxTokens = n
	}
}

// WithAnswerStore records every answer, successful or not.
func WithAnswerStore(store driven.AnswerStore) AnswerOption {
	return func(s *AnswerService) {
		s.answers = store
	}
}

// WithQueryProvider names the provider behind the query embedder. Indexes
// built by a different provider are rejected.
func WithQueryProvider(p domain.AIProvider) AnswerOption {
	return func(s *AnswerService) {
		s.provider = p
	}
}

// WithChatbotStore rejects questions for chatbots missing from the registry,
// even when an index directory for them is still on disk.
func WithChatbotStore(store driven.ChatbotStore) AnswerOption {
	return func(s *AnswerService) {
		s.chatbots = store
	}
}

// NewAnswerService creates a new answer service.
func NewAnswerService(
	workspace *Workspace,
	indexes driven.IndexStore,
	embedder driven.EmbeddingService,
	llm driven.LLMFactory,
	opts ...AnswerOption,
) *AnswerService {
	s := &AnswerService{
		workspace:   workspace,
		indexes:     indexes,
		embedder:    embedder,
		llm:         llm,
		topK:        domain.DefaultTopK,
		temperature: domain.DefaultTemperature,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Ask answers q and collapses the result into the user-visible string.
func (s *AnswerService) Ask(ctx context.Context, q domain.Question) string {
	return s.Answer(ctx, q).Display()
}

// Answer runs retrieval and synthesis. Failures are reported in the
// returned Answer; this method never returns an error.
func (s *AnswerService) Answer(ctx context.Context, q domain.Question) domain.Answer {
	text, sources, err := s.answer(ctx, q)

	ans := domain.Answer{
		Outcome: domain.OutcomeFor(err),
		Text:    text,
		Sources: sources,
		Err:     err,
	}
	if err != nil {
		ans.Text = ""
		logger.Warn("Question for chatbot %s failed (%s): %v", q.Key, ans.Outcome, err)
	}

	s.record(ctx, q, ans)
	return ans
}

func (s *AnswerService) answer(ctx context.Context, q domain.Question) (string, []domain.Source, error) {
	if err := q.Key.Validate(); err != nil {
		return "", nil, err
	}
	question := strings.TrimSpace(q.Text)
	if question == "" {
		return "", nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if s.chatbots != nil {
		if _, err := s.chatbots.Get(ctx, q.Key); err != nil {
			return "", nil, fmt.Errorf("get chatbot: %w", err)
		}
	}
	if s.embedder == nil {
		return "", nil, domain.ErrEmbeddingUnavailable
	}
	if s.llm == nil {
		return "", nil, domain.ErrLLMUnavailable
	}

	// 1. Load the index under the read lock; the lock is released before
	// any network call.
	var idx driven.VectorIndex
	err := s.workspace.Read(ctx, q.Key, func(dir string) error {
		var err error
		idx, err = s.indexes.Load(ctx, dir)
		return err
	})
	if err != nil {
		return "", nil, err
	}
	if err := idx.Manifest().Compatible(s.provider, s.embedder.ModelName(), s.embedder.Dimensions()); err != nil {
		return "", nil, err
	}

	// 2. Retrieve using the bare question; the persona never reaches the embedder
	query, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", nil, fmt.Errorf("embed question: %w", err)
	}
	k := s.topK
	if q.TopK > 0 {
		k = q.TopK
	}
	hits, err := idx.Search(ctx, query, k)
	if err != nil {
		return "", nil, fmt.Errorf("search index: %w", err)
	}

	sources := make([]domain.Source, len(hits))
	contexts := make([]string, len(hits))
	for i, h := range hits {
		sources[i] = domain.Source{ChunkID: h.ID, Content: h.Text, Distance: h.Distance}
		contexts[i] = h.Text
	}
	logger.Debug("Retrieved %d chunks for chatbot %s", len(hits), q.Key)

	// 3. Synthesise
	prompt := s.buildPrompt(strings.Join(contexts, "\n\n"), question, q.Persona)

	llm, err := s.llm(q.APIKey)
	if err != nil {
		return "", sources, fmt.Errorf("create LLM client: %w", err)
	}
	defer llm.Close()

	text, err := llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", sources, fmt.Errorf("generate answer: %w", err)
	}

	return strings.TrimSpace(text), sources, nil
}

// buildPrompt fills the answer template. The persona preamble is prefixed
// to the question inside the prompt only.
func (s *AnswerService) buildPrompt(retrieved, question string, persona *domain.Persona) string {
	answerTmpl := s.loadPrompt(driven.PromptAnswer, domain.DefaultAnswerTemplate)
	personaTmpl := s.loadPrompt(driven.PromptPersona, domain.DefaultPersonaTemplate)

	return fmt.Sprintf(answerTmpl, retrieved, persona.Render(personaTmpl)+question)
}

func (s *AnswerService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// record stores the question and its displayed answer. Failures are logged
// and never change the answer.
func (s *AnswerService) record(ctx context.Context, q domain.Question, ans domain.Answer) {
	if s.answers == nil || q.Key.Validate() != nil || ans.Outcome == domain.OutcomeNotFound {
		return
	}

	rec := &domain.AnswerRecord{
		ID:        uuid.NewString(),
		UserID:    q.Key.UserID,
		ChatbotID: q.Key.ChatbotID,
		Question:  q.Text,
		Answer:    ans.Display(),
		Outcome:   ans.Outcome,
		CreatedAt: s.now().UTC(),
	}

	// A cancelled request still gets its record.
	if err := s.answers.Record(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("Failed to record answer for chatbot %s: %v", q.Key, err)
	}
}

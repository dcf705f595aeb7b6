package cli

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// mockChatbotService keeps chatbots in memory.
type mockChatbotService struct {
	bots    map[domain.ChatbotKey]*domain.Chatbot
	nextID  int64
	history []domain.AnswerRecord

	deleted      []domain.ChatbotKey
	lastUpdate   domain.ChatbotUpdate
	historyLimit int
}

func newMockChatbotService() *mockChatbotService {
	return &mockChatbotService{bots: map[domain.ChatbotKey]*domain.Chatbot{}, nextID: 1}
}

// add stores a chatbot and returns its key.
func (m *mockChatbotService) add(bot domain.Chatbot) domain.ChatbotKey {
	if bot.ID == 0 {
		bot.ID = m.nextID
	}
	m.nextID = max(m.nextID, bot.ID+1)
	m.bots[bot.Key()] = &bot
	return bot.Key()
}

func (m *mockChatbotService) Create(
	_ context.Context, userID int64, name, description, instructions string, public bool,
) (*domain.Chatbot, error) {
	name = strings.TrimSpace(name)
	if userID <= 0 || name == "" {
		return nil, domain.ErrInvalidInput
	}
	key := m.add(domain.Chatbot{
		UserID:       userID,
		Name:         name,
		Description:  description,
		Instructions: instructions,
		IsPublic:     public,
		CreatedAt:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	})
	bot := *m.bots[key]
	return &bot, nil
}

func (m *mockChatbotService) Get(_ context.Context, key domain.ChatbotKey) (*domain.Chatbot, error) {
	bot, ok := m.bots[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *bot
	return &c, nil
}

func (m *mockChatbotService) List(_ context.Context, userID int64) ([]domain.Chatbot, error) {
	var out []domain.Chatbot
	for _, bot := range m.bots {
		if bot.UserID == userID {
			out = append(out, *bot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockChatbotService) Update(
	_ context.Context, key domain.ChatbotKey, update domain.ChatbotUpdate,
) (*domain.Chatbot, error) {
	bot, ok := m.bots[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.lastUpdate = update
	update.Apply(bot)
	c := *bot
	return &c, nil
}

func (m *mockChatbotService) Delete(_ context.Context, key domain.ChatbotKey) error {
	if _, ok := m.bots[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.bots, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockChatbotService) History(
	_ context.Context, key domain.ChatbotKey, limit int,
) ([]domain.AnswerRecord, error) {
	if _, ok := m.bots[key]; !ok {
		return nil, domain.ErrNotFound
	}
	m.historyLimit = limit
	if limit > 0 && limit < len(m.history) {
		return m.history[:limit], nil
	}
	return m.history, nil
}

// mockTrainingService records training requests.
type mockTrainingService struct {
	result   *domain.TrainResult
	err      error
	requests []domain.TrainRequest
}

func (m *mockTrainingService) Train(_ context.Context, req domain.TrainRequest) (*domain.TrainResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockAnswerService records questions and returns a fixed answer.
type mockAnswerService struct {
	answer    domain.Answer
	questions []domain.Question
}

func (m *mockAnswerService) Answer(_ context.Context, q domain.Question) domain.Answer {
	m.questions = append(m.questions, q)
	return m.answer
}

func (m *mockAnswerService) Ask(ctx context.Context, q domain.Question) string {
	return m.Answer(ctx, q).Display()
}

// mockSettingsService serves fixed settings and records changes.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	setErr      error

	values    map[string]string
	embedding []string
	llm       []string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), values: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.embedding = []string{string(provider), model, apiKey}
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.llm = []string{string(provider), model, apiKey}
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetValue(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettingsService) ValidateLLMConfig() error { return nil }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	chatbot  *mockChatbotService
	training *mockTrainingService
	answer   *mockAnswerService
	settings *mockSettingsService
}

// setupTestServices installs fresh mocks and returns them with a cleanup func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		chatbot: newMockChatbotService(),
		training: &mockTrainingService{result: &domain.TrainResult{
			Chunks: 3, Characters: 1200, Model: "fnv-hashing-384", Dimensions: 384,
		}},
		answer: &mockAnswerService{answer: domain.Answer{
			Outcome: domain.OutcomeAnswered,
			Text:    "Refunds take five business days.",
			Sources: []domain.Source{{ChunkID: 2, Content: "Refunds are processed\nwithin five days.", Distance: 0.125}},
		}},
		settings: newMockSettingsService(),
	}
	SetServices(Services{
		Chatbot:  ts.chatbot,
		Training: ts.training,
		Answer:   ts.answer,
		Settings: ts.settings,
	})
	resetFlags(rootCmd)

	return ts, func() {
		SetServices(Services{})
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCommand runs the root command with args and stdin, returning its output.
func executeCommand(stdin string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

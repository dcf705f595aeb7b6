package mcp

import (
	"context"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
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

// mockChatbotService is a mock implementation of driving.ChatbotService.
type mockChatbotService struct {
	chatbots []domain.Chatbot
	chatbot  *domain.Chatbot
	history  []domain.AnswerRecord
	err      error

	listedUser int64
	historyKey domain.ChatbotKey
}

func (m *mockChatbotService) Create(
	_ context.Context, _ int64, _, _, _ string, _ bool,
) (*domain.Chatbot, error) {
	return m.chatbot, m.err
}

func (m *mockChatbotService) Get(_ context.Context, _ domain.ChatbotKey) (*domain.Chatbot, error) {
	if m.chatbot == nil && m.err == nil {
		return nil, domain.ErrNotFound
	}
	return m.chatbot, m.err
}

func (m *mockChatbotService) List(_ context.Context, userID int64) ([]domain.Chatbot, error) {
	m.listedUser = userID
	return m.chatbots, m.err
}

func (m *mockChatbotService) Update(
	_ context.Context, _ domain.ChatbotKey, _ domain.ChatbotUpdate,
) (*domain.Chatbot, error) {
	return m.chatbot, m.err
}

func (m *mockChatbotService) Delete(_ context.Context, _ domain.ChatbotKey) error {
	return m.err
}

func (m *mockChatbotService) History(
	_ context.Context, key domain.ChatbotKey, _ int,
) ([]domain.AnswerRecord, error) {
	m.historyKey = key
	return m.history, m.err
}

// mockTrainingService is a mock implementation of driving.TrainingService.
type mockTrainingService struct {
	result   *domain.TrainResult
	err      error
	requests []domain.TrainRequest
}

func (m *mockTrainingService) Train(_ context.Context, req domain.TrainRequest) (*domain.TrainResult, error) {
	m.requests = append(m.requests, req)
	return m.result, m.err
}

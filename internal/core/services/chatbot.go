package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
	"github.com/custodia-labs/botly/internal/core/ports/driving"
	"github.com/custodia-labs/botly/internal/logger"
)

// Ensure ChatbotService implements the interface.
var _ driving.ChatbotService = (*ChatbotService)(nil)

// ChatbotService manages the chatbot registry.
type ChatbotService struct {
	chatbots  driven.ChatbotStore
	answers   driven.AnswerStore
	workspace *Workspace
}

// NewChatbotService creates a new chatbot service.
// answers and workspace may be nil; deletion then only removes the record.
func NewChatbotService(chatbots driven.ChatbotStore, answers driven.AnswerStore, workspace *Workspace) *ChatbotService {
	return &ChatbotService{
		chatbots:  chatbots,
		answers:   answers,
		workspace: workspace,
	}
}

// Create registers a new chatbot with no data.
func (s *ChatbotService) Create(
	ctx context.Context,
	userID int64,
	name, description, instructions string,
	public bool,
) (*domain.Chatbot, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", domain.ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: chatbot name is required", domain.ErrInvalidInput)
	}

	bot := &domain.Chatbot{
		UserID:       userID,
		Name:         name,
		Description:  strings.TrimSpace(description),
		Instructions: strings.TrimSpace(instructions),
		IsPublic:     public,
	}
	if err := s.chatbots.Save(ctx, bot); err != nil {
		return nil, fmt.Errorf("save chatbot: %w", err)
	}

	logger.Info("Created chatbot %s (%s)", bot.Key(), bot.Name)
	return bot, nil
}

// Get retrieves a chatbot.
func (s *ChatbotService) Get(ctx context.Context, key domain.ChatbotKey) (*domain.Chatbot, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return s.chatbots.Get(ctx, key)
}

// List returns all chatbots owned by a user.
func (s *ChatbotService) List(ctx context.Context, userID int64) ([]domain.Chatbot, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", domain.ErrInvalidInput)
	}
	return s.chatbots.List(ctx, userID)
}

// Update applies a partial update.
func (s *ChatbotService) Update(
	ctx context.Context,
	key domain.ChatbotKey,
	update domain.ChatbotUpdate,
) (*domain.Chatbot, error) {
	bot, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	update.Apply(bot)
	bot.Name = strings.TrimSpace(bot.Name)
	if bot.Name == "" {
		return nil, fmt.Errorf("%w: chatbot name is required", domain.ErrInvalidInput)
	}

	if err := s.chatbots.Save(ctx, bot); err != nil {
		return nil, fmt.Errorf("save chatbot: %w", err)
	}
	return bot, nil
}

// Delete removes a chatbot, its index directory and its answer history.
func (s *ChatbotService) Delete(ctx context.Context, key domain.ChatbotKey) error {
	if _, err := s.Get(ctx, key); err != nil {
		return err
	}

	// The record goes first: a training run that swaps its index in after
	// this point finds the chatbot gone and discards the index itself.
	if err := s.chatbots.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete chatbot: %w", err)
	}
	if s.workspace != nil {
		if err := s.workspace.Remove(ctx, key); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
	}
	if s.answers != nil {
		if err := s.answers.DeleteByChatbot(ctx, key); err != nil {
			return fmt.Errorf("delete answer history: %w", err)
		}
	}

	logger.Info("Deleted chatbot %s", key)
	return nil
}

// History returns recorded answers, newest first.
func (s *ChatbotService) History(ctx context.Context, key domain.ChatbotKey, limit int) ([]domain.AnswerRecord, error) {
	if _, err := s.Get(ctx, key); err != nil {
		return nil, err
	}
	if s.answers == nil {
		return nil, nil
	}
	return s.answers.List(ctx, key, limit)
}

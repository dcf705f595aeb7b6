package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// Ensure ChatbotStore implements the interface.
var _ driven.ChatbotStore = (*ChatbotStore)(nil)

// ChatbotStore is an in-memory implementation of driven.ChatbotStore.
type ChatbotStore struct {
	mu     sync.RWMutex
	nextID int64
	bots   map[int64]domain.Chatbot
}

// NewChatbotStore creates a new in-memory chatbot store.
func NewChatbotStore() *ChatbotStore {
	return &ChatbotStore{
		bots: make(map[int64]domain.Chatbot),
	}
}

// Save inserts a chatbot when its ID is zero, otherwise updates it.
func (s *ChatbotStore) Save(_ context.Context, bot *domain.Chatbot) error {
	if bot == nil {
		return fmt.Errorf("%w: nil chatbot", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if bot.CreatedAt.IsZero() {
		bot.CreatedAt = now
	}
	bot.UpdatedAt = now

	if bot.ID == 0 {
		s.nextID++
		bot.ID = s.nextID
	} else if existing, ok := s.bots[bot.ID]; !ok || existing.UserID != bot.UserID {
		return domain.ErrNotFound
	}

	s.bots[bot.ID] = *bot
	return nil
}

// Get retrieves a chatbot owned by key.UserID.
func (s *ChatbotStore) Get(_ context.Context, key domain.ChatbotKey) (*domain.Chatbot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bot, ok := s.bots[key.ChatbotID]
	if !ok || bot.UserID != key.UserID {
		return nil, domain.ErrNotFound
	}
	return &bot, nil
}

// List returns a user's chatbots ordered by ID.
func (s *ChatbotStore) List(_ context.Context, userID int64) ([]domain.Chatbot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Chatbot
	for id := range s.bots {
		if s.bots[id].UserID == userID {
			result = append(result, s.bots[id])
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Delete removes a chatbot.
func (s *ChatbotStore) Delete(_ context.Context, key domain.ChatbotKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bot, ok := s.bots[key.ChatbotID]; ok && bot.UserID == key.UserID {
		delete(s.bots, key.ChatbotID)
	}
	return nil
}

package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// Ensure AnswerStore implements the interface.
var _ driven.AnswerStore = (*AnswerStore)(nil)

// AnswerStore is an in-memory implementation of driven.AnswerStore.
// Records are kept in insertion order.
type AnswerStore struct {
	mu      sync.RWMutex
	records []domain.AnswerRecord
}

// NewAnswerStore creates a new in-memory answer store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{}
}

// Record stores one answer record.
func (s *AnswerStore) Record(_ context.Context, rec *domain.AnswerRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("%w: answer record without id", domain.ErrInvalidInput)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *rec)
	return nil
}

// List returns up to limit records for a chatbot, newest first.
func (s *AnswerStore) List(_ context.Context, key domain.ChatbotKey, limit int) ([]domain.AnswerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.AnswerRecord
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		if rec.UserID != key.UserID || rec.ChatbotID != key.ChatbotID {
			continue
		}
		result = append(result, rec)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// DeleteByChatbot removes every record for a chatbot.
func (s *AnswerStore) DeleteByChatbot(_ context.Context, key domain.ChatbotKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, rec := range s.records {
		if rec.UserID != key.UserID || rec.ChatbotID != key.ChatbotID {
			kept = append(kept, rec)
		}
	}
	s.records = kept
	return nil
}

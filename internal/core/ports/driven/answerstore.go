package driven

import (
	"context"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// AnswerStore records questions and answers for analytics.
type AnswerStore interface {
	// Record stores one answer record.
	Record(ctx context.Context, rec *domain.AnswerRecord) error

	// List returns up to limit records for a chatbot, newest first.
	// A non-positive limit returns all records.
	List(ctx context.Context, key domain.ChatbotKey, limit int) ([]domain.AnswerRecord, error)

	// DeleteByChatbot removes every record for a chatbot.
	DeleteByChatbot(ctx context.Context, key domain.ChatbotKey) error
}

package driving

import (
	"context"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// ChatbotService manages a user's chatbots.
type ChatbotService interface {
	// Create registers a new chatbot with no data.
	Create(ctx context.Context, userID int64, name, description, instructions string, public bool) (*domain.Chatbot, error)

	// Get retrieves a chatbot.
	Get(ctx context.Context, key domain.ChatbotKey) (*domain.Chatbot, error)

	// List returns all chatbots owned by a user.
	List(ctx context.Context, userID int64) ([]domain.Chatbot, error)

	// Update applies a partial update.
	Update(ctx context.Context, key domain.ChatbotKey, update domain.ChatbotUpdate) (*domain.Chatbot, error)

	// Delete removes a chatbot, its index directory and its answer history.
	Delete(ctx context.Context, key domain.ChatbotKey) error

	// History returns recorded answers, newest first.
	History(ctx context.Context, key domain.ChatbotKey, limit int) ([]domain.AnswerRecord, error)
}

package driven

import (
	"context"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// ChatbotStore persists the chatbot registry.
type ChatbotStore interface {
	// Save inserts a chatbot when ID is zero, assigning its ID, or updates it.
	Save(ctx context.Context, bot *domain.Chatbot) error

	// Get retrieves a chatbot owned by key.UserID.
	// Returns ErrNotFound if it does not exist or belongs to another user.
	Get(ctx context.Context, key domain.ChatbotKey) (*domain.Chatbot, error)

	// List returns a user's chatbots ordered by ID.
	List(ctx context.Context, userID int64) ([]domain.Chatbot, error)

	// Delete removes a chatbot. Deleting a missing chatbot is not an error.
	Delete(ctx context.Context, key domain.ChatbotKey) error
}

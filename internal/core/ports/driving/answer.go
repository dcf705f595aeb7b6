package driving

import (
	"context"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// AnswerService answers questions from a chatbot's index.
type AnswerService interface {
	// Answer runs retrieval and synthesis, reporting failures in the
	// returned Answer rather than as an error.
	Answer(ctx context.Context, q domain.Question) domain.Answer

	// Ask is Answer collapsed to the user-visible string.
	Ask(ctx context.Context, q domain.Question) string
}

package driving

import (
	"context"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// TrainingService rebuilds a chatbot's index from uploaded data.
type TrainingService interface {
	// Train extracts, chunks and embeds the request's sources and replaces
	// the chatbot's index. Returns ErrNoContent if nothing was extracted.
	Train(ctx context.Context, req domain.TrainRequest) (*domain.TrainResult, error)
}

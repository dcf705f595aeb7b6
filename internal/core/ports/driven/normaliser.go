package driven

import (
	"context"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// Normaliser transforms raw file bytes into a text document.
// Each normaliser handles specific MIME types (e.g., PDF, HTML).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise transforms a raw document into a document with Content set.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Document is the normalised document with Content field populated.
	Document domain.Document

	// Pages is the number of source pages, when the format has pages.
	Pages int
}

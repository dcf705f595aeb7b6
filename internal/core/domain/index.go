package domain

import (
	"fmt"
	"time"
)

// IndexFormatVersion is the on-disk layout version written by this build.
const IndexFormatVersion = 1

// IndexManifest describes how a persisted vector index was built.
type IndexManifest struct {
	FormatVersion int
	Provider      AIProvider
	Model         string
	Dimensions    int
	Count         int
	CreatedAt     time.Time
}

// Compatible reports whether vectors from the given provider and model can
// query this index. An empty provider on either side skips that check.
func (m IndexManifest) Compatible(provider AIProvider, model string, dims int) error {
	if provider != "" && m.Provider != "" && m.Provider != provider {
		return fmt.Errorf("%w: index built with %s, querying with %s", ErrEmbeddingMismatch, m.Provider, provider)
	}
	if m.Model != model {
		return fmt.Errorf("%w: index built with %q, querying with %q", ErrEmbeddingMismatch, m.Model, model)
	}
	if dims > 0 && m.Dimensions != dims {
		return fmt.Errorf("%w: index has %d dimensions, query has %d", ErrDimensionMismatch, m.Dimensions, dims)
	}
	return nil
}

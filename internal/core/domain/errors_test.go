package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrNoData", ErrNoData},
		{"ErrNoContent", ErrNoContent},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrEmbeddingMismatch", ErrEmbeddingMismatch},
		{"ErrIndexCorrupt", ErrIndexCorrupt},
		{"ErrAuthRequired", ErrAuthRequired},
		{"ErrAuthInvalid", ErrAuthInvalid},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("openai error (status 401): %w", ErrAuthInvalid)

	assert.True(t, errors.Is(wrapped, ErrAuthInvalid))
	assert.False(t, errors.Is(wrapped, ErrRateLimited))
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNoData, ErrNotFound))
	assert.False(t, errors.Is(ErrNoContent, ErrNoData))
	assert.False(t, errors.Is(ErrEmbeddingMismatch, ErrDimensionMismatch))
}

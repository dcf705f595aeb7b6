package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown file type or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Training and answering both require it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Index Errors.

	// ErrNoData indicates a chatbot has no persisted index yet.
	ErrNoData = errors.New("no data uploaded for chatbot")

	// ErrNoContent indicates extraction produced no text.
	// This is a valid terminal outcome of a crawl or an empty file.
	ErrNoContent = errors.New("no content extracted")

	// ErrDimensionMismatch indicates vectors of differing lengths were
	// supplied to an index, or a query does not match the index dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingMismatch indicates an index was built with a different
	// embedding provider or model than the one used to query it.
	ErrEmbeddingMismatch = errors.New("embedding model mismatch")

	// ErrIndexCorrupt indicates a persisted index failed validation on load.
	ErrIndexCorrupt = errors.New("index corrupt")

	// Provider Errors.

	// ErrAuthRequired indicates a provider requires a credential but none was given.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the credential was rejected by the provider.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

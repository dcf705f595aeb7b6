package driven

import (
	"context"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// VectorIndex is an immutable nearest-neighbour index over one chatbot's chunks.
// IDs are dense, 0..Len()-1, and identical between vectors and texts.
type VectorIndex interface {
	// Search finds the k nearest vectors to query by L2 distance, closest first.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored vectors.
	Len() int

	// Dimensions returns the vector length.
	Dimensions() int

	// Manifest describes the embedding model the index was built with.
	Manifest() domain.IndexManifest

	// Vector returns a copy of the stored vector for id.
	Vector(id int) ([]float32, bool)

	// Text returns the chunk text for id.
	Text(id int) (string, bool)
}

// VectorHit represents a nearest-neighbour search result.
type VectorHit struct {
	// ID is the dense chunk id.
	ID int

	// Text is the chunk text from the side table.
	Text string

	// Distance is the Euclidean distance to the query.
	Distance float64
}

// IndexStore creates and serialises vector indexes.
type IndexStore interface {
	// Build creates an index from parallel vectors and texts.
	// Returns ErrInvalidInput if the lengths differ and ErrDimensionMismatch
	// if vector lengths are inconsistent.
	Build(vectors [][]float32, texts []string, manifest domain.IndexManifest) (VectorIndex, error)

	// Persist writes idx into dir, replacing any prior contents.
	Persist(ctx context.Context, idx VectorIndex, dir string) error

	// Load reads the index in dir.
	// Returns ErrNoData if dir holds no index and ErrIndexCorrupt if it fails validation.
	Load(ctx context.Context, dir string) (VectorIndex, error)
}

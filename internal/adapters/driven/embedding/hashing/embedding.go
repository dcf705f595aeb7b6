// Package hashing provides an offline embedding service based on feature hashing.
//
// Each lower-cased word and adjacent word pair is hashed with FNV-1a into one
// of a fixed number of buckets with a hash-derived sign, and the resulting
// bag-of-features vector is L2-normalised. Vectors are deterministic and need
// no model download or network access, which makes the service suitable as a
// default and for tests. Retrieval quality is lexical, not semantic.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the bucket count, matching all-minilm.
const DefaultDimensions = domain.DefaultHashingDimensions

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// EmbeddingService embeds text by feature hashing.
type EmbeddingService struct {
	model      string
	dimensions int
}

// NewEmbeddingService creates a hashing embedder with the given bucket count.
// A non-positive count selects DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{
		model:      fmt.Sprintf("fnv-hashing-%d", dimensions),
		dimensions: dimensions,
	}
}

// Embed generates a vector embedding for the given text.
// Text with no word characters yields the zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, s.dimensions)
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	for i, tok := range tokens {
		s.add(vec, tok)
		if i > 0 {
			s.add(vec, tokens[i-1]+" "+tok)
		}
	}

	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}

	out := make([]float32, s.dimensions)
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out, nil
}

func (s *EmbeddingService) add(vec []float64, feature string) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(s.dimensions))
	if sum>>63 == 1 {
		vec[bucket]--
	} else {
		vec[bucket]++
	}
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns "fnv-hashing-<dimensions>".
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

package postprocessors

import (
	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
	"github.com/custodia-labs/botly/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// DefaultRegistry returns a registry with the built-in processors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// ForChunkSettings builds the chunking pipeline for the given settings.
func ForChunkSettings(c domain.ChunkSettings) (*Pipeline, error) {
	return Build(DefaultRegistry(), domain.PipelineConfigFor(c))
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): characters per chunk (default: 500)
//   - overlap (int): overlapping characters between chunks (default: 0)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap := getIntFromConfig(cfg, "overlap"); overlap > 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig extracts an int from a generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	switch v := cfg[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 0

// Processor splits document content into fixed-size chunks of Unicode code
// points, left to right, with no regard for word or sentence boundaries.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
// An overlap that is not smaller than the chunk size is dropped.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		p.overlap = 0
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(doc.Content)/p.chunkSize+1)
	for i, text := range Split(doc.Content, p.chunkSize, p.overlap) {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		chunks = append(chunks, domain.Chunk{
			ID:          i,
			DocumentURI: doc.URI,
			Content:     text,
		})
	}

	return chunks, nil
}

// Split cuts text into pieces of size code points. Each piece starts
// size-overlap code points after the previous one; the last may be shorter.
// With overlap zero the pieces concatenate back to text.
func Split(text string, size, overlap int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	// Byte offset of every rune start, plus the end of the string.
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	runes := len(offsets)
	offsets = append(offsets, len(text))

	step := size - overlap
	pieces := make([]string, 0, runes/step+1)
	for start := 0; start < runes; start += step {
		end := start + size
		if end > runes {
			end = runes
		}
		pieces = append(pieces, text[offsets[start]:offsets[end]])
		if end == runes {
			break
		}
	}
	return pieces
}

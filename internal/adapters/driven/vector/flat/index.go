package flat

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory exact L2 index.
type Index struct {
	vectors  *mat.Dense
	texts    []string
	manifest domain.IndexManifest
}

// newIndex validates parallel vectors and texts and copies them into a matrix.
func newIndex(vectors [][]float32, texts []string, manifest domain.IndexManifest) (*Index, error) {
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: %d vectors for %d texts", domain.ErrInvalidInput, len(vectors), len(texts))
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no vectors to index", domain.ErrInvalidInput)
	}

	dims := len(vectors[0])
	if dims == 0 {
		return nil, fmt.Errorf("%w: zero-length vector", domain.ErrDimensionMismatch)
	}
	if manifest.Dimensions != 0 && manifest.Dimensions != dims {
		return nil, fmt.Errorf("%w: model reports %d dimensions, vectors have %d",
			domain.ErrDimensionMismatch, manifest.Dimensions, dims)
	}

	data := make([]float64, 0, len(vectors)*dims)
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, expected %d",
				domain.ErrDimensionMismatch, i, len(v), dims)
		}
		for _, x := range v {
			data = append(data, float64(x))
		}
	}

	manifest.FormatVersion = domain.IndexFormatVersion
	manifest.Dimensions = dims
	manifest.Count = len(vectors)

	return &Index{
		vectors:  mat.NewDense(len(vectors), dims, data),
		texts:    append([]string(nil), texts...),
		manifest: manifest,
	}, nil
}

// Search returns the k nearest rows to query, closest first.
// Ties are broken by ascending ID. k larger than Len returns every row.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, dims := idx.vectors.Dims()
	if len(query) != dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), dims)
	}
	if k <= 0 {
		return nil, nil
	}
	if k > rows {
		k = rows
	}

	q := make([]float64, dims)
	for i, x := range query {
		q[i] = float64(x)
	}

	hits := make([]driven.VectorHit, rows)
	for i := 0; i < rows; i++ {
		hits[i] = driven.VectorHit{
			ID:       i,
			Distance: floats.Distance(idx.vectors.RawRowView(i), q, 2),
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	hits = hits[:k]
	for i := range hits {
		hits[i].Text = idx.texts[hits[i].ID]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	return len(idx.texts)
}

// Dimensions returns the vector length.
func (idx *Index) Dimensions() int {
	_, c := idx.vectors.Dims()
	return c
}

// Manifest describes the model the index was built with.
func (idx *Index) Manifest() domain.IndexManifest {
	return idx.manifest
}

// Vector returns a copy of row id.
func (idx *Index) Vector(id int) ([]float32, bool) {
	if id < 0 || id >= idx.Len() {
		return nil, false
	}
	row := idx.vectors.RawRowView(id)
	out := make([]float32, len(row))
	for i, x := range row {
		out[i] = float32(x)
	}
	return out, true
}

// Text returns the chunk text for id.
func (idx *Index) Text(id int) (string, bool) {
	if id < 0 || id >= len(idx.texts) {
		return "", false
	}
	return idx.texts[id], true
}

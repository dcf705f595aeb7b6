package flat

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/botly/internal/core/domain"
)

func randomVectors(r *rand.Rand, n, dims int) ([][]float32, []string) {
	vectors := make([][]float32, n)
	texts := make([]string, n)
	for i := range vectors {
		v := make([]float32, dims)
		for j := range v {
			v[j] = r.Float32()*2 - 1
		}
		vectors[i] = v
		texts[i] = string(rune('a' + i%26))
	}
	return vectors, texts
}

func TestBuild_Validation(t *testing.T) {
	s := NewStore()

	_, err := s.Build([][]float32{{1, 2}}, []string{"a", "b"}, domain.IndexManifest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.Build(nil, nil, domain.IndexManifest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.Build([][]float32{{1, 2}, {1, 2, 3}}, []string{"a", "b"}, domain.IndexManifest{})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = s.Build([][]float32{{1, 2}}, []string{"a"}, domain.IndexManifest{Dimensions: 384})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	idx, err := s.Build([][]float32{{1, 2}, {3, 4}}, []string{"a", "b"}, domain.IndexManifest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 2, idx.Dimensions())
	m := idx.Manifest()
	assert.Equal(t, 2, m.Count)
	assert.Equal(t, 2, m.Dimensions)
	assert.Equal(t, domain.IndexFormatVersion, m.FormatVersion)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestSearch_SortedAndExactMatchFirst(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	vectors, texts := randomVectors(r, 60, 16)

	idx, err := NewStore().Build(vectors, texts, domain.IndexManifest{})
	require.NoError(t, err)

	for _, probe := range []int{0, 17, 59} {
		hits, err := idx.Search(context.Background(), vectors[probe], 10)
		require.NoError(t, err)
		require.Len(t, hits, 10)

		assert.Equal(t, probe, hits[0].ID)
		assert.Zero(t, hits[0].Distance)
		assert.Equal(t, texts[probe], hits[0].Text)
		assert.True(t, sort.SliceIsSorted(hits, func(a, b int) bool {
			return hits[a].Distance < hits[b].Distance
		}))
	}
}

func TestSearch_Bounds(t *testing.T) {
	idx, err := NewStore().Build([][]float32{{0, 0}, {3, 4}}, []string{"origin", "far"}, domain.IndexManifest{})
	require.NoError(t, err)
	ctx := context.Background()

	hits, err := idx.Search(ctx, []float32{0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.InDelta(t, 5.0, hits[1].Distance, 1e-9)

	hits, err = idx.Search(ctx, []float32{0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = idx.Search(ctx, []float32{0, 0, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = idx.Search(cancelled, []float32{0, 0}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_TiesByID(t *testing.T) {
	idx, err := NewStore().Build([][]float32{{1, 0}, {-1, 0}, {0, 1}}, []string{"a", "b", "c"}, domain.IndexManifest{})
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{0, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, []int{hits[0].ID, hits[1].ID, hits[2].ID})
}

func TestVectorAndText(t *testing.T) {
	idx, err := NewStore().Build([][]float32{{0.5, 0.25}}, []string{"only"}, domain.IndexManifest{})
	require.NoError(t, err)

	v, ok := idx.Vector(0)
	require.True(t, ok)
	assert.Equal(t, []float32{0.5, 0.25}, v)
	_, ok = idx.Vector(1)
	assert.False(t, ok)

	text, ok := idx.Text(0)
	assert.True(t, ok)
	assert.Equal(t, "only", text)
	_, ok = idx.Text(-1)
	assert.False(t, ok)
}

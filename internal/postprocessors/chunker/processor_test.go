package chunker

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/botly/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.chunkSize)
		}
		if p.overlap != 0 {
			t.Errorf("expected overlap 0, got %d", p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(200))
		if p.ChunkSize() != 200 {
			t.Errorf("expected chunkSize 200, got %d", p.ChunkSize())
		}
	})

	t.Run("overlap not smaller than chunk size is dropped", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(100))
		if p.overlap != 0 {
			t.Errorf("expected overlap 0, got %d", p.overlap)
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultChunkSize || p.overlap != DefaultChunkOverlap {
			t.Errorf("expected defaults, got size=%d overlap=%d", p.chunkSize, p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	if name := New().Name(); name != "chunker" {
		t.Errorf("expected name 'chunker', got %q", name)
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	chunks, err := New().Process(context.Background(), &domain.Document{URI: "a"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	doc := &domain.Document{URI: "notes.txt", Content: "short text"}

	chunks, err := New().Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "short text" || chunks[0].ID != 0 || chunks[0].DocumentURI != "notes.txt" {
		t.Errorf("unexpected chunk %+v", chunks[0])
	}
}

func TestProcessor_Process_DenseIDsAndSizes(t *testing.T) {
	doc := &domain.Document{Content: strings.Repeat("a", 1250)}

	chunks, err := New().Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{500, 500, 250}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, c := range chunks {
		if c.ID != i {
			t.Errorf("chunk %d: expected ID %d, got %d", i, i, c.ID)
		}
		if len(c.Content) != want[i] {
			t.Errorf("chunk %d: expected length %d, got %d", i, want[i], len(c.Content))
		}
	}
}

func TestProcessor_Process_ExactChunkSize(t *testing.T) {
	doc := &domain.Document{Content: strings.Repeat("x", 1000)}

	chunks, err := New().Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestProcessor_Process_CountsCodePoints(t *testing.T) {
	doc := &domain.Document{Content: strings.Repeat("日本語", 4)}

	chunks, err := New(WithChunkSize(5)).Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"日本語日本", "語日本語日", "本語"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, c := range chunks {
		if c.Content != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], c.Content)
		}
	}
}

func TestProcessor_Process_Overlap(t *testing.T) {
	doc := &domain.Document{Content: "abcdefghij"}

	chunks, err := New(WithChunkSize(4), WithOverlap(2)).Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"abcd", "cdef", "efgh", "ghij"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, c := range chunks {
		if c.Content != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], c.Content)
		}
	}
}

func TestProcessor_Process_IgnoresInputChunks(t *testing.T) {
	existing := []domain.Chunk{{ID: 7, Content: "stale"}}
	doc := &domain.Document{Content: "fresh"}

	chunks, err := New().Process(context.Background(), doc, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Content != "fresh" {
		t.Errorf("expected input chunks to be replaced, got %+v", chunks)
	}
}

func TestProcessor_Process_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Process(ctx, &domain.Document{Content: "text"}, nil)
	if err == nil {
		t.Error("expected context error")
	}
}

// TestSplit_Reassembles checks that concatenating the chunks restores the
// input and that every chunk but the last has exactly size code points.
func TestSplit_Reassembles(t *testing.T) {
	alphabet := []rune("abc xyz\n\té日本🙂")
	rng := rand.New(rand.NewSource(1))

	for iter := 0; iter < 500; iter++ {
		n := rng.Intn(2000)
		runes := make([]rune, n)
		for i := range runes {
			runes[i] = alphabet[rng.Intn(len(alphabet))]
		}
		text := string(runes)
		size := 1 + rng.Intn(600)

		pieces := Split(text, size, 0)

		if got := strings.Join(pieces, ""); got != text {
			t.Fatalf("iter %d: reassembled text differs (size=%d, len=%d)", iter, size, n)
		}
		for i, p := range pieces {
			count := utf8.RuneCountInString(p)
			if i < len(pieces)-1 && count != size {
				t.Fatalf("iter %d: chunk %d has %d code points, want %d", iter, i, count, size)
			}
			if count == 0 || count > size {
				t.Fatalf("iter %d: chunk %d has %d code points", iter, i, count)
			}
		}
	}
}

func TestSplit_Edges(t *testing.T) {
	if got := Split("", 10, 0); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
	if got := Split("abc", 0, 0); got != nil {
		t.Errorf("expected nil for zero size, got %v", got)
	}
	if got := Split("abc", 2, 5); len(got) != 2 {
		t.Errorf("expected oversized overlap to be ignored, got %v", got)
	}
}

func BenchmarkSplit(b *testing.B) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 4000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Split(text, DefaultChunkSize, 0)
	}
}

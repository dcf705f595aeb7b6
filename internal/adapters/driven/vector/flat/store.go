package flat

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// File names inside an index directory.
const (
	ManifestFile = "manifest.toml"
	VectorsFile  = "vectors.bin"
	ChunksFile   = "chunks.jsonl"
)

// Store builds, persists and loads flat indexes.
type Store struct{}

// NewStore creates a flat index store.
func NewStore() *Store {
	return &Store{}
}

// manifestFile is the TOML form of domain.IndexManifest.
type manifestFile struct {
	FormatVersion int       `toml:"format_version"`
	Provider      string    `toml:"provider"`
	Model         string    `toml:"model"`
	Dimensions    int       `toml:"dimensions"`
	Count         int       `toml:"count"`
	CreatedAt     time.Time `toml:"created_at"`
}

// chunkRecord is one line of chunks.jsonl.
type chunkRecord struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Build creates an index from parallel vectors and texts.
func (s *Store) Build(vectors [][]float32, texts []string, manifest domain.IndexManifest) (driven.VectorIndex, error) {
	if manifest.CreatedAt.IsZero() {
		manifest.CreatedAt = time.Now().UTC()
	}
	return newIndex(vectors, texts, manifest)
}

// Persist writes idx into dir, replacing the index files already there.
func (s *Store) Persist(ctx context.Context, idx driven.VectorIndex, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	m := idx.Manifest()
	mf := manifestFile{
		FormatVersion: domain.IndexFormatVersion,
		Provider:      string(m.Provider),
		Model:         m.Model,
		Dimensions:    idx.Dimensions(),
		Count:         idx.Len(),
		CreatedAt:     m.CreatedAt.UTC(),
	}

	// Manifest last, so a directory with a manifest always has data beside it.
	if err := writeFile(filepath.Join(dir, VectorsFile), func(w io.Writer) error {
		return writeVectors(w, idx)
	}); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}
	if err := writeFile(filepath.Join(dir, ChunksFile), func(w io.Writer) error {
		return writeChunks(w, idx)
	}); err != nil {
		return fmt.Errorf("write chunks: %w", err)
	}
	if err := writeFile(filepath.Join(dir, ManifestFile), func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(mf)
	}); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Load reads the index in dir.
func (s *Store) Load(ctx context.Context, dir string) (driven.VectorIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoData, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var mf manifestFile
	if err := toml.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("%w: parse manifest: %w", domain.ErrIndexCorrupt, err)
	}
	if mf.FormatVersion != domain.IndexFormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", domain.ErrIndexCorrupt, mf.FormatVersion)
	}
	if mf.Count <= 0 || mf.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: manifest declares %d vectors of %d dimensions",
			domain.ErrIndexCorrupt, mf.Count, mf.Dimensions)
	}

	vectors, err := readVectors(filepath.Join(dir, VectorsFile), mf.Count, mf.Dimensions)
	if err != nil {
		return nil, err
	}
	texts, err := readChunks(filepath.Join(dir, ChunksFile), mf.Count)
	if err != nil {
		return nil, err
	}

	idx, err := newIndex(vectors, texts, domain.IndexManifest{
		Provider:   domain.AIProvider(mf.Provider),
		Model:      mf.Model,
		Dimensions: mf.Dimensions,
		CreatedAt:  mf.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexCorrupt, err)
	}
	return idx, nil
}

// writeFile writes through a temporary sibling and renames it into place.
func writeFile(path string, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := fill(w); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeVectors(w io.Writer, idx driven.VectorIndex) error {
	buf := make([]byte, 4*idx.Dimensions())
	for id := 0; id < idx.Len(); id++ {
		vec, _ := idx.Vector(id)
		for i, v := range vec {
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func writeChunks(w io.Writer, idx driven.VectorIndex) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for id := 0; id < idx.Len(); id++ {
		text, _ := idx.Text(id)
		if err := enc.Encode(chunkRecord{ID: id, Text: text}); err != nil {
			return err
		}
	}
	return nil
}

func readVectors(path string, count, dims int) ([][]float32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read vectors: %w", domain.ErrIndexCorrupt, err)
	}
	if len(raw) != count*dims*4 {
		return nil, fmt.Errorf("%w: vectors file has %d bytes, expected %d",
			domain.ErrIndexCorrupt, len(raw), count*dims*4)
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		vec := make([]float32, dims)
		for j := range vec {
			off := (i*dims + j) * 4
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func readChunks(path string, count int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open chunks: %w", domain.ErrIndexCorrupt, err)
	}
	defer f.Close()

	texts := make([]string, 0, count)
	dec := json.NewDecoder(bufio.NewReader(f))
	for {
		var rec chunkRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: decode chunk %d: %w", domain.ErrIndexCorrupt, len(texts), err)
		}
		if rec.ID != len(texts) {
			return nil, fmt.Errorf("%w: chunk id %d out of sequence at %d",
				domain.ErrIndexCorrupt, rec.ID, len(texts))
		}
		texts = append(texts, rec.Text)
	}
	if len(texts) != count {
		return nil, fmt.Errorf("%w: %d chunks for %d vectors", domain.ErrIndexCorrupt, len(texts), count)
	}
	return texts, nil
}

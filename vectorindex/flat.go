// Package vectorindex implements an exact flat L2 nearest-neighbor index
// over fixed-dimension embeddings, with file persistence. Per-document
// corpora are small, so brute-force search is favored over approximation.
package vectorindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

var (
	// ErrEmptyIndex is returned when searching an index with no vectors.
	ErrEmptyIndex = errors.New("vector index is empty")
	// ErrDimensionMismatch is returned when a vector does not match the
	// index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Result is one nearest-neighbor hit. Index is the position of the vector
// in insertion order, which callers use to recover the source chunk.
type Result struct {
	Index    int
	Distance float64
}

// Flat is an exact L2 index. Vectors are stored in insertion order and the
// structure is never reordered, so position i always corresponds to the
// i-th item added.
type Flat struct {
	dim     int
	vectors [][]float32
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid index dimension %d", dim)
	}
	return &Flat{dim: dim}, nil
}

// Dimension returns the vector dimension the index was built for.
func (f *Flat) Dimension() int { return f.dim }

// Size returns the number of stored vectors.
func (f *Flat) Size() int { return len(f.vectors) }

// Add appends vectors to the index in order.
func (f *Flat) Add(vectors [][]float32) error {
	for _, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("%w: got %d, index has %d", ErrDimensionMismatch, len(v), f.dim)
		}
	}
	f.vectors = append(f.vectors, vectors...)
	return nil
}

// Search returns the k nearest vectors to query by L2 distance, ordered by
// ascending distance. If k exceeds the index size, all entries are
// returned.
func (f *Flat) Search(query []float32, k int) ([]Result, error) {
	if len(f.vectors) == 0 {
		return nil, ErrEmptyIndex
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), f.dim)
	}
	if k < 1 {
		return nil, fmt.Errorf("invalid k %d, must be >= 1", k)
	}
	if k > len(f.vectors) {
		k = len(f.vectors)
	}

	results := make([]Result, len(f.vectors))
	for i, v := range f.vectors {
		results[i] = Result{Index: i, Distance: l2Distance(query, v)}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance == results[j].Distance {
			return results[i].Index < results[j].Index
		}
		return results[i].Distance < results[j].Distance
	})
	return results[:k], nil
}

// indexFile is the on-disk representation.
type indexFile struct {
	Dimension int         `json:"dimension"`
	Vectors   [][]float32 `json:"vectors"`
}

// Save persists the index to path. The file is written to a temporary
// sibling and renamed, so readers never observe a partially written index.
func (f *Flat) Save(path string) error {
	data, err := json.Marshal(indexFile{Dimension: f.dim, Vectors: f.vectors})
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move index into place: %w", err)
	}
	return nil
}

// Load reads a previously saved index from path.
func Load(path string) (*Flat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}
	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode index file: %w", err)
	}
	if file.Dimension <= 0 {
		return nil, fmt.Errorf("index file has invalid dimension %d", file.Dimension)
	}
	idx := &Flat{dim: file.Dimension}
	if err := idx.Add(file.Vectors); err != nil {
		return nil, fmt.Errorf("index file is inconsistent: %w", err)
	}
	return idx, nil
}

func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

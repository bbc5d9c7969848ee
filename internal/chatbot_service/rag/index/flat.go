package index

import (
	"encoding/gob"
	"fmt"
	"io"
	"sort"
)

// Result is one nearest-neighbor hit. Position is the row of the matched
// vector in the matrix the index was built from, which is also the position
// of the matching chunk in the parallel chunk list.
type Result struct {
	Position int
	Distance float32 // squared Euclidean distance
}

// Flat is an exact brute-force nearest-neighbor index over squared Euclidean
// distance. Every query is compared against every stored vector, so it is
// only suitable while the corpus stays small (thousands of rows).
type Flat struct {
	dim     int
	vectors [][]float32
}

// Build constructs a Flat index from an embedding matrix. All rows must share
// one dimension; a mismatch means the matrix was produced by inconsistent
// embedding models and would silently corrupt every search, so it is rejected
// here. The matrix is copied, later mutation of the argument does not affect
// the index.
func Build(matrix [][]float32) (*Flat, error) {
	f := &Flat{}
	if len(matrix) == 0 {
		return f, nil
	}

	f.dim = len(matrix[0])
	f.vectors = make([][]float32, len(matrix))
	for i, row := range matrix {
		if len(row) != f.dim {
			return nil, fmt.Errorf("inconsistent embedding dimension: row %d has %d values, expected %d", i, len(row), f.dim)
		}
		v := make([]float32, f.dim)
		copy(v, row)
		f.vectors[i] = v
	}

	return f, nil
}

// Size returns the number of indexed vectors.
func (f *Flat) Size() int {
	return len(f.vectors)
}

// Dim returns the dimensionality of the indexed vectors, 0 when empty.
func (f *Flat) Dim() int {
	return f.dim
}

// Search returns up to k nearest rows to query, ascending by distance. Ties
// are broken by the lower row position. If k exceeds the number of indexed
// rows, fewer results are returned.
func (f *Flat) Search(query []float32, k int) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(f.vectors) == 0 {
		return nil, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), f.dim)
	}

	results := make([]Result, len(f.vectors))
	for i, v := range f.vectors {
		var sum float64
		for j := range v {
			d := float64(query[j]) - float64(v[j])
			sum += d * d
		}
		results[i] = Result{Position: i, Distance: float32(sum)}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Position < results[j].Position
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// flatData is the gob wire form of a Flat index.
type flatData struct {
	Dim     int
	Vectors [][]float32
}

// WriteTo serializes the index.
func (f *Flat) WriteTo(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(flatData{Dim: f.dim, Vectors: f.vectors}); err != nil {
		return fmt.Errorf("failed to encode flat index: %w", err)
	}
	return nil
}

// ReadFrom deserializes an index previously written with WriteTo.
func ReadFrom(r io.Reader) (*Flat, error) {
	var data flatData
	dec := gob.NewDecoder(r)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode flat index: %w", err)
	}
	return &Flat{dim: data.Dim, vectors: data.Vectors}, nil
}

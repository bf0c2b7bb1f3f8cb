// Package csx provides a compact binary format for sparse matrices whose
// nonzeros form geometric substructure: runs along a row or column,
// diagonals, anti-diagonals, or small dense blocks. Instead of storing one
// index per nonzero, a run of structured nonzeros collapses into a single
// (pattern type, anchor, size) triple, shrinking both the control stream
// and the index overhead compared to plain CSR.
//
// # Core Features
//
//   - Automatic pattern discovery: a planner loop scores every candidate
//     substructure and greedily re-encodes the matrix pass by pass
//   - Compact control stream: a two-byte header per run, delta varint or
//     fixed-width column references
//   - Row-wise multi-partition encoding for parallel construction
//   - Optional persistence with pluggable compression (Zstd, S2, LZ4)
//
// # Basic Usage
//
// Encoding a sparse matrix from coordinate triples:
//
//	import "github.com/gocsx/csx"
//
//	coords := []partition.Coord{
//	    {Row: 1, Col: 1, Val: 1.0},
//	    {Row: 1, Col: 2, Val: 2.0},
//	    {Row: 2, Col: 2, Val: 3.0},
//	}
//	mat, err := csx.Encode(2, 2, coords, csx.DefaultOptions())
//
// Decoding back to coordinate triples:
//
//	coords, err := csx.Decode(mat, csx.DefaultOptions())
//
// # Package Structure
//
// This file provides convenience wrappers around the lower-level packages
// (partition, encodeplan, assembler, decoder, multipartition, persist). For
// fine-grained control over the planner or a custom candidate order, use
// those packages directly.
package csx

import (
	"github.com/gocsx/csx/assembler"
	"github.com/gocsx/csx/decoder"
	"github.com/gocsx/csx/encodeplan"
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/multipartition"
	"github.com/gocsx/csx/partition"
	"github.com/gocsx/csx/persist"
)

// Options configures the planner, encoder and assembler. See format.Options
// for the individual fields.
type Options = format.Options

// DefaultOptions returns the documented default configuration: min_limit=4,
// max_limit=254, min_perc=0.1, delta-varint column references.
func DefaultOptions() Options {
	return format.DefaultOptions()
}

// Coord is one input nonzero triple, 1-based.
type Coord = partition.Coord

// Matrix is the assembled control stream, values array, per-row metadata
// and pattern map for a single partition.
type Matrix = assembler.CsxMatrix

// Encode builds a SparsePartition from coords, runs the planner to
// discover substructure, and assembles the result into a Matrix.
//
// Returns errs.ErrInvalidCoordinate or errs.ErrDuplicateCoordinate if
// coords is malformed, or errs.ErrLimitExceeded if the chosen encoding
// needs more than format.CtlPatternsMax distinct pattern flags.
func Encode(numRows, numCols int, coords []Coord, opts Options) (*Matrix, error) {
	p, err := partition.NewFromCoords(0, numRows, numCols, coords)
	if err != nil {
		return nil, err
	}

	encodeplan.Plan(p, opts)

	return assembler.MakeCsx(p, opts)
}

// Decode reconstructs every nonzero a Matrix describes as coordinate
// triples, in row-major order.
func Decode(mat *Matrix, opts Options) ([]Coord, error) {
	return decoder.Decode(mat, opts)
}

// EncodeParallel splits coords row-wise into numWorkers partitions (0 means
// runtime.NumCPU()) and encodes them concurrently, one goroutine per
// partition with no shared mutable state, concatenating the results in
// partition-index order.
func EncodeParallel(numRows, numCols int, coords []Coord, opts Options, numWorkers int) (*multipartition.Matrix, error) {
	return multipartition.Split(numRows, numCols, coords, opts, numWorkers)
}

// Save serializes mat to a self-describing byte blob, compressing the
// payload with the given compression type.
func Save(mat *Matrix, compression format.CompressionType) ([]byte, error) {
	return persist.Save(mat, compression)
}

// Load reverses Save, verifying the embedded checksum before returning.
func Load(data []byte) (*Matrix, error) {
	return persist.Load(data)
}

// SymMatrix is a symmetric matrix's encoded output: the dense main diagonal
// plus the strictly-lower triangle encoded as an ordinary Matrix.
type SymMatrix = assembler.CsxSymMatrix

// EncodeSymmetric splits a symmetric n×n matrix's coordinates into its main
// diagonal and strictly-lower triangle, then encodes the lower triangle as
// an ordinary Matrix. Coordinates above the diagonal are assumed to mirror
// their lower-triangle counterpart and are not separately validated.
func EncodeSymmetric(n int, coords []Coord, opts Options) (*SymMatrix, error) {
	diagonal, lower, err := partition.SplitSymmetric(n, coords)
	if err != nil {
		return nil, err
	}

	p, err := partition.NewFromCoords(0, n, n, lower)
	if err != nil {
		return nil, err
	}

	encodeplan.Plan(p, opts)

	return assembler.MakeCsxSym(diagonal, p, opts)
}

// DecodeSymmetric reconstructs every nonzero a SymMatrix describes,
// including both triangles: the lower triangle decodes directly, the
// diagonal comes from DValues, and the upper triangle is the lower
// triangle's transpose.
func DecodeSymmetric(mat *SymMatrix, opts Options) ([]Coord, error) {
	lower, err := decoder.Decode(mat.Lower, opts)
	if err != nil {
		return nil, err
	}

	coords := make([]Coord, 0, len(lower)*2+len(mat.DValues))
	for i, v := range mat.DValues {
		if v == 0 {
			continue
		}
		coords = append(coords, Coord{Row: i + 1, Col: i + 1, Val: v})
	}

	for _, c := range lower {
		coords = append(coords, c)
		coords = append(coords, Coord{Row: c.Col, Col: c.Row, Val: c.Val})
	}

	return coords, nil
}

// SaveSym serializes a SymMatrix, compressing the lower-triangle payload
// with the given compression type. The diagonal is stored uncompressed
// since it is usually small relative to the lower triangle.
func SaveSym(mat *SymMatrix, compression format.CompressionType) ([]byte, error) {
	return persist.SaveSym(mat, compression)
}

// LoadSym reverses SaveSym.
func LoadSym(data []byte) (*SymMatrix, error) {
	return persist.LoadSym(data)
}

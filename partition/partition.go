// Package partition implements the sparse partition: an owned, mutable
// collection of row-major elements that can be re-sorted in place into any
// of the geometric sweep orders the encoder needs. Every sweep order is
// reduced to one sort over a (group, vcol) key pair, replacing the original
// per-type row-pointer-array bookkeeping with a single comparison function.
package partition

import (
	"iter"
	"sort"

	"github.com/gocsx/csx/element"
	"github.com/gocsx/csx/errs"
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/internal/pool"
)

// Coord is one input nonzero triple, 1-based as required by §3.
type Coord struct {
	Row int
	Col int
	Val float64
}

// SparsePartition is a contiguous row range of the overall matrix, owned by
// one encoder. RowStart is the partition's first row in the global matrix;
// Row/Col on every element are partition-local and 1-based.
type SparsePartition struct {
	RowStart int
	NumRows  int
	NumCols  int

	elements []element.Element
	typ      format.PatternType
}

// NewFromCoords ingests coordinate triples, validates them against the
// declared row/column bounds, rejects duplicate coordinates, sorts into
// Horizontal order, and returns the resulting partition.
func NewFromCoords(rowStart, numRows, numCols int, triples []Coord) (*SparsePartition, error) {
	elems := make([]element.Element, len(triples))
	seen := make(map[[2]int]struct{}, len(triples))

	for i, t := range triples {
		if t.Row < 1 || t.Row > numRows || t.Col < 1 || t.Col > numCols {
			return nil, errs.ErrInvalidCoordinate
		}

		key := [2]int{t.Row, t.Col}
		if _, dup := seen[key]; dup {
			return nil, errs.ErrDuplicateCoordinate
		}
		seen[key] = struct{}{}

		elems[i] = element.NewPlain(t.Row, t.Col, t.Val)
	}

	sort.Slice(elems, func(i, j int) bool {
		if elems[i].Row != elems[j].Row {
			return elems[i].Row < elems[j].Row
		}

		return elems[i].Col < elems[j].Col
	})

	return &SparsePartition{
		RowStart: rowStart,
		NumRows:  numRows,
		NumCols:  numCols,
		elements: elems,
		typ:      format.Horizontal,
	}, nil
}

// Type returns the iteration order the partition's elements currently sit
// in.
func (p *SparsePartition) Type() format.PatternType { return p.typ }

// Elements returns the partition's elements in their current iteration
// order. The caller must not retain the slice across a Transform or
// Replace call.
func (p *SparsePartition) Elements() []element.Element { return p.elements }

// NumNonzeros returns the total count of individual nonzeros covered by the
// partition's elements (pattern instances count as Size(), not 1).
func (p *SparsePartition) NumNonzeros() int {
	n := 0
	for _, e := range p.elements {
		n += e.Size()
	}

	return n
}

// Replace swaps in a newly built element slice, in the partition's current
// iteration order. Used by the encoder once it finishes rewriting every
// row for a candidate type.
func (p *SparsePartition) Replace(elems []element.Element) {
	p.elements = elems
}

// groupAndVcol computes the (group, vcol) sort key for an element's anchor
// under sweep order t. vcol increases by exactly 1 per unit step along the
// sweep axis, so a delta-RLE run of value 1 over vcol corresponds to full
// coverage and a run of value d corresponds to a stride-d pattern.
func groupAndVcol(t format.PatternType, row, col int) (group int64, vcol int64) {
	switch {
	case t == format.Horizontal:
		return int64(row), int64(col)
	case t == format.Vertical:
		return int64(col), int64(row)
	case t == format.Diagonal:
		return int64(row - col), int64(row)
	case t == format.AntiDiagonal:
		return int64(row + col), int64(row)
	case t.IsBlockRow():
		k := int64(t.BlockAlignment())
		group = int64(row-1) / k
		localRow := int64(row-1) % k
		return group, int64(col-1)*k + localRow + 1
	case t.IsBlockCol():
		k := int64(t.BlockAlignment())
		group = int64(col-1) / k
		localCol := int64(col-1) % k
		return group, int64(row-1)*k + localCol + 1
	default:
		return int64(row), int64(col)
	}
}

// FromGroupAndVcol inverts groupAndVcol: given a sweep order t, a group key
// and a vcol, it recovers the real (row, col) the pair names. The encoder
// uses this to turn the column positions it reconstructs from a delta-RLE
// run back into element coordinates.
func FromGroupAndVcol(t format.PatternType, group, vcol int64) (row, col int) {
	switch {
	case t == format.Horizontal:
		return int(group), int(vcol)
	case t == format.Vertical:
		return int(vcol), int(group)
	case t == format.Diagonal:
		return int(vcol), int(vcol - group)
	case t == format.AntiDiagonal:
		return int(vcol), int(group - vcol)
	case t.IsBlockRow():
		k := int64(t.BlockAlignment())
		localRow := (vcol - 1) % k
		col = int((vcol-1)/k) + 1
		row = int(group*k + localRow + 1)
		return row, col
	case t.IsBlockCol():
		k := int64(t.BlockAlignment())
		localCol := (vcol - 1) % k
		row = int((vcol-1)/k) + 1
		col = int(group*k + localCol + 1)
		return row, col
	default:
		return int(group), int(vcol)
	}
}

// Transform re-sorts the partition's elements into the sweep order of
// newType. The sort is a total order over (group, vcol, row, col); the last
// two break ties so the sort is stable for elements sharing a vcol (which
// cannot happen for valid input, but keeps the sort deterministic even so).
func (p *SparsePartition) Transform(newType format.PatternType) {
	elems := p.elements

	groups, cleanupGroups := pool.GetInt64Slice(len(elems))
	defer cleanupGroups()
	vcols, cleanupVcols := pool.GetInt64Slice(len(elems))
	defer cleanupVcols()

	for i, e := range elems {
		groups[i], vcols[i] = groupAndVcol(newType, e.Row, e.Col)
	}

	idx, cleanupIdx := pool.GetIntSlice(len(elems))
	defer cleanupIdx()
	for i := range idx {
		idx[i] = i
	}

	sort.Slice(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if groups[ia] != groups[ib] {
			return groups[ia] < groups[ib]
		}
		if vcols[ia] != vcols[ib] {
			return vcols[ia] < vcols[ib]
		}
		if elems[ia].Row != elems[ib].Row {
			return elems[ia].Row < elems[ib].Row
		}

		return elems[ia].Col < elems[ib].Col
	})

	sorted := make([]element.Element, len(elems))
	for i, j := range idx {
		sorted[i] = elems[j]
	}

	p.elements = sorted
	p.typ = newType
}

// Groups iterates the partition's elements in its current sweep order,
// yielding one contiguous run per group key (e.g. one matrix row for
// Horizontal, one column for Vertical, one block index for BlockRow/Col).
// Empty groups are never yielded, matching generate_stats and the encoder
// which only ever see groups with at least one element.
func (p *SparsePartition) Groups() iter.Seq2[int64, []element.Element] {
	return func(yield func(int64, []element.Element) bool) {
		elems := p.elements
		start := 0
		for start < len(elems) {
			group, _ := groupAndVcol(p.typ, elems[start].Row, elems[start].Col)
			end := start + 1
			for end < len(elems) {
				g, _ := groupAndVcol(p.typ, elems[end].Row, elems[end].Col)
				if g != group {
					break
				}
				end++
			}

			if !yield(group, elems[start:end]) {
				return
			}

			start = end
		}
	}
}

// HorizontalRows iterates every row 1..NumRows in order, yielding that
// row's elements (nil for an empty row). Valid only when Type() ==
// format.Horizontal; it is the assembler's only entry point into the
// partition, since make_csx must see empty rows explicitly.
func (p *SparsePartition) HorizontalRows() iter.Seq2[int, []element.Element] {
	return func(yield func(int, []element.Element) bool) {
		elems := p.elements
		idx := 0

		for row := 1; row <= p.NumRows; row++ {
			start := idx
			for idx < len(elems) && elems[idx].Row == row {
				idx++
			}

			if !yield(row, elems[start:idx]) {
				return
			}
		}
	}
}

// Vcol returns the virtual column of (row, col) under the partition's
// current sweep order. Exposed for stats and the encoder, which operate on
// vcol sequences rather than raw columns once the partition has been
// transformed away from Horizontal.
func (p *SparsePartition) Vcol(row, col int) int64 {
	_, vcol := groupAndVcol(p.typ, row, col)
	return vcol
}

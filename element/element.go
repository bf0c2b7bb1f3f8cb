// Package element defines the nonzero and pattern-instance types a sparse
// partition is built from, and the pure geometry functions (last column,
// vertical span, per-index coordinate) that replace the dispatch-by-virtual
// call hierarchy of pointer-based pattern classes with a plain switch over
// format.PatternType.
package element

import (
	"github.com/gocsx/csx/errs"
	"github.com/gocsx/csx/format"
)

// PatternDescriptor immutably describes a geometric run: its family, the
// per-step stride along the run's axis, and how many nonzeros it covers.
type PatternDescriptor struct {
	Type  format.PatternType
	Delta int
	Size  int
}

// Validate reports whether d satisfies the minimum-size and block-alignment
// invariants required of any emitted pattern.
func (d PatternDescriptor) Validate() error {
	if d.Size < 2 {
		return errs.ErrInvalidPattern
	}

	if d.Type.IsBlock() {
		k := d.Type.BlockAlignment()
		if d.Size%k != 0 || d.Size < 2*k {
			return errs.ErrInvalidPattern
		}

		return nil
	}

	if d.Delta < 1 {
		return errs.ErrInvalidPattern
	}

	return nil
}

// ID returns the pattern_id uniquely encoding (Type, Delta) (Delta ignored
// for block types, which key off alignment instead).
func (d PatternDescriptor) ID() int64 {
	return format.PatternID(d.Type, d.Delta)
}

// Span returns the maximum vertical reach (in rows) of a pattern instance
// anchored at any row, per the §4.6 span-tracking rules.
func (d PatternDescriptor) Span() int {
	switch {
	case d.Type == format.Vertical || d.Type == format.Diagonal || d.Type == format.AntiDiagonal:
		return (d.Size - 1) * d.Delta
	case d.Type.IsBlockRow():
		return d.Type.BlockAlignment() - 1
	case d.Type.IsBlockCol():
		return d.Size/d.Type.BlockAlignment() - 1
	default:
		// Horizontal and any non-pattern (plain) element.
		return 0
	}
}

// LastCol returns the column of the last nonzero covered by a pattern
// anchored at anchorCol.
func (d PatternDescriptor) LastCol(anchorCol int) int {
	switch {
	case d.Type == format.Horizontal:
		return anchorCol + d.Delta*(d.Size-1)
	case d.Type == format.Vertical || d.Type == format.Diagonal || d.Type == format.AntiDiagonal:
		return anchorCol
	case d.Type.IsBlockRow():
		return anchorCol + d.Size/d.Type.BlockAlignment() - 1
	case d.Type.IsBlockCol():
		return anchorCol + d.Type.BlockAlignment() - 1
	default:
		return anchorCol
	}
}

// Coord returns the (row, col) of the i-th nonzero (0-based) covered by a
// pattern with the given anchor. It is the inverse used by the decoder and
// by tests validating round-trip reconstruction.
func (d PatternDescriptor) Coord(anchorRow, anchorCol, i int) (row, col int) {
	switch {
	case d.Type == format.Horizontal:
		return anchorRow, anchorCol + d.Delta*i
	case d.Type == format.Vertical:
		return anchorRow + d.Delta*i, anchorCol
	case d.Type == format.Diagonal:
		return anchorRow + d.Delta*i, anchorCol + d.Delta*i
	case d.Type == format.AntiDiagonal:
		return anchorRow + d.Delta*i, anchorCol - d.Delta*i
	case d.Type.IsBlockRow():
		k := d.Type.BlockAlignment()
		return anchorRow + i%k, anchorCol + i/k
	case d.Type.IsBlockCol():
		k := d.Type.BlockAlignment()
		return anchorRow + i/k, anchorCol + i%k
	default:
		return anchorRow, anchorCol
	}
}

// Element is either a plain nonzero (Pattern.Type == format.None, a single
// Values[0]) or a pattern instance anchored at (Row, Col) covering
// Pattern.Size nonzeros in Values, in run order.
type Element struct {
	Row     int
	Col     int
	Pattern PatternDescriptor
	Values  []float64
}

// NewPlain builds a single-nonzero element.
func NewPlain(row, col int, val float64) Element {
	return Element{Row: row, Col: col, Pattern: PatternDescriptor{Type: format.None}, Values: []float64{val}}
}

// NewPattern builds a pattern-bearing element. len(values) must equal
// desc.Size; callers validate desc before calling NewPattern.
func NewPattern(row, col int, desc PatternDescriptor, values []float64) Element {
	return Element{Row: row, Col: col, Pattern: desc, Values: values}
}

// IsPattern reports whether e is a pattern instance rather than a plain
// nonzero.
func (e Element) IsPattern() bool { return e.Pattern.Type != format.None }

// Size returns the number of nonzeros e covers (1 for a plain element).
func (e Element) Size() int {
	if e.IsPattern() {
		return e.Pattern.Size
	}

	return 1
}

// LastCol returns the column of the last nonzero e covers.
func (e Element) LastCol() int {
	if e.IsPattern() {
		return e.Pattern.LastCol(e.Col)
	}

	return e.Col
}

// Span returns the vertical reach of e, 0 for a plain element.
func (e Element) Span() int {
	if e.IsPattern() {
		return e.Pattern.Span()
	}

	return 0
}

// Coords returns the (row, col) of every nonzero e covers, in run order.
func (e Element) Coords() [][2]int {
	out := make([][2]int, e.Size())
	if !e.IsPattern() {
		out[0] = [2]int{e.Row, e.Col}
		return out
	}

	for i := range out {
		r, c := e.Pattern.Coord(e.Row, e.Col, i)
		out[i] = [2]int{r, c}
	}

	return out
}

// Value returns e's single value, valid only when e is a plain element.
func (e Element) Value() float64 { return e.Values[0] }

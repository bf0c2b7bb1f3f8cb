// Package assembler implements make_csx: the final walk over a Horizontal
// partition that emits the control stream, the values array, per-row
// metadata and the pattern-flag map.
package assembler

import (
	"github.com/gocsx/csx/ctl"
	"github.com/gocsx/csx/element"
	"github.com/gocsx/csx/errs"
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/internal/varint"
	"github.com/gocsx/csx/partition"
)

// RowInfo is one row's entry in CsxMatrix.RowsInfo.
type RowInfo struct {
	CtlOffset   int
	ValueOffset int
	Span        int
}

// CsxMatrix is the encoded output of one partition: the layout mirrors §6.1
// of the format description, minus the symmetric-matrix diagonal prefix
// (see package persist for that wrapper).
type CsxMatrix struct {
	NNZ      int
	NumRows  int
	NumCols  int
	RowStart int
	RowJumps bool

	Ctl      []byte
	Values   []float64
	RowsInfo []RowInfo

	// IDMap maps a flag to the pattern_id it names, in assignment order,
	// terminated with -1 at index len(IDMap)-1.
	IDMap []int64
}

// MakeCsx walks p (which must be in Horizontal order) and assembles a
// CsxMatrix. It fails only if more than format.CtlPatternsMax distinct
// patterns would need flags.
func MakeCsx(p *partition.SparsePartition, opts format.Options) (*CsxMatrix, error) {
	builder := ctl.New()
	defer builder.Release()

	flagOf := make(map[int64]byte)
	var idMap []int64

	getFlag := func(patternID int64) (byte, error) {
		if f, ok := flagOf[patternID]; ok {
			return f, nil
		}

		if len(idMap) >= format.CtlPatternsMax {
			return 0, errs.ErrLimitExceeded
		}

		f := byte(len(idMap))
		flagOf[patternID] = f
		idMap = append(idMap, patternID)

		return f, nil
	}

	values := make([]float64, 0, p.NumNonzeros())
	rowsInfo := make([]RowInfo, p.NumRows)

	emptyRows := 0
	firstNonemptyEmitted := false
	sawRowJump := false
	var prevInfo RowInfo

	for row, elems := range p.HorizontalRows() {
		if len(elems) == 0 {
			emptyRows++
			rowsInfo[row-1] = RowInfo{CtlOffset: prevInfo.CtlOffset, ValueOffset: prevInfo.ValueOffset, Span: 0}

			continue
		}

		nr := firstNonemptyEmitted
		rowJump := uint64(0)
		if emptyRows > 0 {
			rowJump = uint64(emptyRows + 1)
			sawRowJump = true
		}

		ctlOffset := builder.Len()
		valueOffset := len(values)
		// 0, not 1: the first unit's column reference is the starting
		// column itself (no prior column has been consumed in this row).
		lastCol := 0
		span := 0

		var pendingCols []int
		var pendingVals []float64

		flushCols := func() error {
			if len(pendingCols) == 0 {
				return nil
			}

			if err := addCols(builder, getFlag, opts, &nr, &rowJump, &lastCol, pendingCols, pendingVals); err != nil {
				return err
			}

			values = append(values, pendingVals...)
			pendingCols, pendingVals = nil, nil

			return nil
		}

		for _, e := range elems {
			if !e.IsPattern() {
				pendingCols = append(pendingCols, e.Col)
				pendingVals = append(pendingVals, e.Value())

				if len(pendingCols) == format.CtlSizeMax {
					if err := flushCols(); err != nil {
						return nil, err
					}
				}

				continue
			}

			if err := flushCols(); err != nil {
				return nil, err
			}

			if err := addPattern(builder, getFlag, opts, &nr, &rowJump, &lastCol, e); err != nil {
				return nil, err
			}
			values = append(values, e.Values...)

			if s := e.Span(); s > span {
				span = s
			}
		}

		if err := flushCols(); err != nil {
			return nil, err
		}

		info := RowInfo{CtlOffset: ctlOffset, ValueOffset: valueOffset, Span: span}
		rowsInfo[row-1] = info
		prevInfo = info
		firstNonemptyEmitted = true
		emptyRows = 0
	}

	idMap = append(idMap, -1)

	return &CsxMatrix{
		NNZ:      p.NumNonzeros(),
		NumRows:  p.NumRows,
		NumCols:  p.NumCols,
		RowStart: p.RowStart,
		RowJumps: sawRowJump,
		Ctl:      builder.Finalize(),
		Values:   values,
		RowsInfo: rowsInfo,
		IDMap:    idMap,
	}, nil
}

func colRef(fullIndices bool, col, lastCol int) uint64 {
	if fullIndices {
		return uint64(col - 1) //nolint:gosec
	}

	return uint64(col - lastCol) //nolint:gosec
}

func addCols(b *ctl.Builder, getFlag func(int64) (byte, error), opts format.Options, nr *bool, rowJump *uint64, lastCol *int, cols []int, vals []float64) error {
	firstJump := colRef(opts.FullColumnIndices, cols[0], *lastCol)

	body := make([]int64, len(cols)-1)
	for i := 1; i < len(cols); i++ {
		body[i-1] = int64(cols[i] - cols[i-1])
	}

	width := varint.SmallestFitWidthUnsigned(body)
	patternID := format.DeltaListPatternID(width)

	flag, err := getFlag(patternID)
	if err != nil {
		return err
	}

	b.AppendHead(*nr, *rowJump, flag, len(cols), firstJump, opts.FullColumnIndices, opts.IndexWidth)

	deltas := make([]uint64, len(body))
	for i, d := range body {
		deltas[i] = uint64(d) //nolint:gosec
	}
	b.AppendFixedDeltas(width, deltas)

	*lastCol = cols[len(cols)-1]
	*nr = false
	*rowJump = 0

	return nil
}

func addPattern(b *ctl.Builder, getFlag func(int64) (byte, error), opts format.Options, nr *bool, rowJump *uint64, lastCol *int, e element.Element) error {
	patternID := e.Pattern.ID()

	flag, err := getFlag(patternID)
	if err != nil {
		return err
	}

	ref := colRef(opts.FullColumnIndices, e.Col, *lastCol)

	b.AppendHead(*nr, *rowJump, flag, e.Size(), ref, opts.FullColumnIndices, opts.IndexWidth)

	*lastCol = e.LastCol()
	*nr = false
	*rowJump = 0

	return nil
}

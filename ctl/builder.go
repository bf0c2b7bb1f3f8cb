// Package ctl implements the control-stream byte grammar: append-only unit
// headers (flags, size, optional row-jump and column-reference varints) and
// the fixed-width, alignment-padded delta bodies that follow a delta-list
// unit. It knows nothing about rows, patterns or flag assignment; the
// assembler package drives it.
package ctl

import (
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/internal/pool"
	"github.com/gocsx/csx/internal/varint"
)

// Builder accumulates a partition's control stream. Its zero value is not
// usable; call New.
type Builder struct {
	buf *pool.ByteBuffer
}

// New borrows a buffer from the shared control-stream pool.
func New() *Builder {
	return &Builder{buf: pool.GetCtlBuffer()}
}

// Release returns the builder's buffer to the pool. Call only after
// Finalize has copied out whatever bytes the caller needs to keep.
func (b *Builder) Release() {
	pool.PutCtlBuffer(b.buf)
	b.buf = nil
}

// Len reports the number of bytes written so far; the assembler uses it as
// a row's ctl_offset.
func (b *Builder) Len() int { return b.buf.Len() }

// AppendHead writes one unit's header: the flags byte, the size byte, an
// optional row-jump varint, and the leading column reference (a varint, or
// a fixed-width integer when fullIndices is set).
//
//   - nr: set bit6 (CTL_NR) unless this is the very first row of the
//     partition (the decoder assumes row 0 implicitly).
//   - rowJump: empty_rows+1; written as a varint iff non-zero, which also
//     sets bit7 (CTL_RJMP).
//   - flag: the unit's 6-bit pattern flag (bits 0-5 of the flags byte).
//   - size: 1..255, the number of nonzeros this unit covers.
//   - colRef: the column reference — start_col minus the previous unit's
//     last column, taken as 0 for a row's first unit (so start_col itself);
//     under fullIndices, start_col-1 for every unit.
func (b *Builder) AppendHead(nr bool, rowJump uint64, flag byte, size int, colRef uint64, fullIndices bool, indexWidth int) {
	flags := flag & format.CtlFlagMask
	if nr {
		flags |= format.CtlNR
	}
	if rowJump != 0 {
		flags |= format.CtlRJMP
	}

	b.buf.MustWrite([]byte{flags, byte(size)})

	if rowJump != 0 {
		b.buf.B = varint.AppendUvarint(b.buf.B, rowJump)
	}

	if fullIndices {
		b.alignTo(indexWidth)
		b.buf.B = varint.AppendFixedUnsigned(b.buf.B, colRef, indexWidth)
	} else {
		b.buf.B = varint.AppendUvarint(b.buf.B, colRef)
	}
}

// AppendFixedDeltas aligns the cursor up to a multiple of width (padding
// with zero bytes) and writes each of deltas as an unsigned little-endian
// integer of that width.
func (b *Builder) AppendFixedDeltas(width int, deltas []uint64) {
	b.alignTo(width)
	for _, d := range deltas {
		b.buf.B = varint.AppendFixedUnsigned(b.buf.B, d, width)
	}
}

func (b *Builder) alignTo(width int) {
	if width <= 1 {
		return
	}

	pad := (width - b.buf.Len()%width) % width
	for i := 0; i < pad; i++ {
		b.buf.MustWrite([]byte{0})
	}
}

// Finalize returns an owned copy of the accumulated bytes. The builder
// remains usable afterward (Finalize does not reset it); call Release once
// the bytes are no longer needed from the pooled buffer.
func (b *Builder) Finalize() []byte {
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())

	return out
}

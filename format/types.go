// Package format defines the pattern type enumeration and the wire-level
// constants shared by every stage of the CSX encoder: the control-stream bit
// layout, the pattern-id numbering scheme, and the default planner tunables.
package format

// CompressionType identifies an optional generic byte-stream compressor
// applied when persisting an encoded CsxMatrix (see package persist). It is
// unrelated to the geometric pattern encoding performed by the core encoder.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1
	CompressionZstd CompressionType = 0x2
	CompressionS2   CompressionType = 0x3
	CompressionLZ4  CompressionType = 0x4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// PatternType identifies the geometric substructure a run of nonzeros was
// encoded with. None is the distinguished "no substructure" value; it is
// never emitted as a pattern, only carried in an ignore set.
type PatternType uint8

const (
	None PatternType = iota
	Horizontal
	Vertical
	Diagonal
	AntiDiagonal
	BlockRow1
	BlockRow2
	BlockRow3
	BlockRow4
	BlockRow5
	BlockRow6
	BlockRow7
	BlockRow8
	BlockCol1
	BlockCol2
	BlockCol3
	BlockCol4
	BlockCol5
	BlockCol6
	BlockCol7
	BlockCol8
)

func (t PatternType) String() string {
	switch t {
	case None:
		return "None"
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	case Diagonal:
		return "Diagonal"
	case AntiDiagonal:
		return "AntiDiagonal"
	}

	switch {
	case t.IsBlockRow():
		return "BlockRow" + digit(t.BlockAlignment())
	case t.IsBlockCol():
		return "BlockCol" + digit(t.BlockAlignment())
	}

	return "Unknown"
}

func digit(k int) string { return string(rune('0' + k)) }

// IsBlockRow reports whether t is one of BlockRow1..BlockRow8.
func (t PatternType) IsBlockRow() bool { return t >= BlockRow1 && t <= BlockRow8 }

// IsBlockCol reports whether t is one of BlockCol1..BlockCol8.
func (t PatternType) IsBlockCol() bool { return t >= BlockCol1 && t <= BlockCol8 }

// IsBlock reports whether t is any block-aligned type.
func (t PatternType) IsBlock() bool { return t.IsBlockRow() || t.IsBlockCol() }

// IsLinear reports whether t is one of the four non-block run types.
func (t PatternType) IsLinear() bool {
	return t == Horizontal || t == Vertical || t == Diagonal || t == AntiDiagonal
}

// BlockAlignment returns the block size k for a BlockRow-k/BlockCol-k type,
// or 0 for non-block types.
func (t PatternType) BlockAlignment() int {
	switch {
	case t.IsBlockRow():
		return int(t-BlockRow1) + 1
	case t.IsBlockCol():
		return int(t-BlockCol1) + 1
	default:
		return 0
	}
}

// AllTypes returns every candidate encoding type in a stable order, used by
// the planner to enumerate candidates on each pass.
func AllTypes() []PatternType {
	return []PatternType{
		Horizontal, Vertical, Diagonal, AntiDiagonal,
		BlockRow1, BlockRow2, BlockRow3, BlockRow4,
		BlockRow5, BlockRow6, BlockRow7, BlockRow8,
		BlockCol1, BlockCol2, BlockCol3, BlockCol4,
		BlockCol5, BlockCol6, BlockCol7, BlockCol8,
	}
}

// Control-stream bit layout: flags is a single byte, bits 0-5 the pattern
// flag, bit 6 the new-row marker, bit 7 the row-jump marker.
const (
	CtlFlagMask = 0x3F
	CtlNR       = 0x40
	CtlRJMP     = 0x80

	CtlSizeMax     = 255
	CtlPatternsMax = 63
)

// Pattern-id numbering. Each linear type owns a disjoint range wide enough
// for any practical delta value; block types are keyed directly by their
// alignment, and plain delta-list units get their own range keyed by the
// packed delta width so they can share the same flag-assignment table as
// geometric patterns.
const (
	pidHorizontalBase   = int64(0)
	pidVerticalBase     = int64(1) << 32
	pidDiagonalBase     = int64(2) << 32
	pidAntiDiagonalBase = int64(3) << 32
	pidBlockRowBase     = int64(4) << 32
	pidBlockColBase     = pidBlockRowBase + 16
	pidDeltaListBase    = pidBlockColBase + 16
)

// PatternID returns the unique identifier for (type, delta), injective over
// every PatternType the encoder can produce. For block types, delta is
// ignored; alignment is used instead.
func PatternID(t PatternType, delta int) int64 {
	switch {
	case t == Horizontal:
		return pidHorizontalBase + int64(delta)
	case t == Vertical:
		return pidVerticalBase + int64(delta)
	case t == Diagonal:
		return pidDiagonalBase + int64(delta)
	case t == AntiDiagonal:
		return pidAntiDiagonalBase + int64(delta)
	case t.IsBlockRow():
		return pidBlockRowBase + int64(t.BlockAlignment())
	case t.IsBlockCol():
		return pidBlockColBase + int64(t.BlockAlignment())
	default:
		return -1
	}
}

// DeltaListPatternID returns the pattern id used to assign a flag to a plain
// delta-list unit packed with the given fixed width (1, 2, 4 or 8 bytes).
func DeltaListPatternID(width int) int64 {
	return pidDeltaListBase + int64(widthClass(width))
}

// DecodePatternID inverts PatternID for every geometric or block pattern id.
// It returns ok=false for a delta-list pattern id (use
// DecodeDeltaListPatternID instead) or any value outside a known range.
func DecodePatternID(id int64) (t PatternType, delta int, ok bool) {
	switch {
	case id >= pidDeltaListBase:
		return None, 0, false
	case id >= pidBlockColBase:
		k := int(id - pidBlockColBase)
		if k < 1 || k > 8 {
			return None, 0, false
		}

		return BlockCol1 + PatternType(k-1), 0, true
	case id >= pidBlockRowBase:
		k := int(id - pidBlockRowBase)
		if k < 1 || k > 8 {
			return None, 0, false
		}

		return BlockRow1 + PatternType(k-1), 0, true
	case id >= pidAntiDiagonalBase:
		return AntiDiagonal, int(id - pidAntiDiagonalBase), true
	case id >= pidDiagonalBase:
		return Diagonal, int(id - pidDiagonalBase), true
	case id >= pidVerticalBase:
		return Vertical, int(id - pidVerticalBase), true
	default:
		return Horizontal, int(id - pidHorizontalBase), true
	}
}

// DecodeDeltaListPatternID inverts DeltaListPatternID, returning ok=false
// for a geometric or block pattern id.
func DecodeDeltaListPatternID(id int64) (width int, ok bool) {
	if id < pidDeltaListBase {
		return 0, false
	}

	switch id - pidDeltaListBase {
	case 0:
		return 1, true
	case 1:
		return 2, true
	case 2:
		return 4, true
	case 3:
		return 8, true
	default:
		return 0, false
	}
}

func widthClass(width int) int {
	switch width {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	default:
		panic("format: invalid fixed width")
	}
}

// Planner defaults, see the encoder configuration section of the format
// description.
const (
	DefaultMinLimit = 4
	DefaultMaxLimit = 254
	DefaultMinPerc  = 0.1
)

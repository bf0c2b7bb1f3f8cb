package format

// Options is the encoder configuration shared by the planner, the per-type
// encoder and the CSX assembler. Its zero value is not valid; use
// DefaultOptions to start from the documented defaults.
type Options struct {
	// MinLimit is the minimum run frequency considered for pattern
	// encoding.
	MinLimit int
	// MaxLimit is the maximum pattern size, bounded by CtlSizeMax minus
	// room for a row-jump prefix.
	MaxLimit int
	// MinPerc is the minimum nonzero coverage fraction a delta value must
	// clear to survive stats filtering.
	MinPerc float64
	// Ignore holds candidate types the planner never considers. None,
	// BlockRow1 and BlockCol1 are always ignored: a "block" of alignment 1
	// degenerates to the Horizontal/Vertical case respectively and buys
	// nothing over it.
	Ignore map[PatternType]bool
	// FullColumnIndices switches the control stream's leading column
	// reference for each unit from a delta varint to a fixed-width
	// absolute column, at IndexWidth bytes.
	FullColumnIndices bool
	// IndexWidth is the fixed width used for full column indices, ignored
	// when FullColumnIndices is false.
	IndexWidth int
}

// DefaultOptions returns the documented defaults: min_limit=4,
// max_limit=254, min_perc=0.1, with None/BlockRow1/BlockCol1 ignored and
// delta varints (not full column indices).
func DefaultOptions() Options {
	return Options{
		MinLimit: DefaultMinLimit,
		MaxLimit: DefaultMaxLimit,
		MinPerc:  DefaultMinPerc,
		Ignore: map[PatternType]bool{
			None:      true,
			BlockRow1: true,
			BlockCol1: true,
		},
		FullColumnIndices: false,
		IndexWidth:        8,
	}
}

// Candidates returns every type from AllTypes not present in o.Ignore.
func (o Options) Candidates() []PatternType {
	var out []PatternType
	for _, t := range AllTypes() {
		if !o.Ignore[t] {
			out = append(out, t)
		}
	}

	return out
}

// Package stats implements pattern-candidate statistics gathering: for a
// partition already transformed into a candidate type, it measures how much
// nonzero coverage each delta value (or block other-dimension) would buy if
// encoded as a pattern, so the planner can score candidates against each
// other.
package stats

import (
	"github.com/gocsx/csx/internal/rle"
	"github.com/gocsx/csx/partition"
)

// Entry accumulates coverage for one delta value (linear types) or one
// other-dimension (block types).
type Entry struct {
	NNZ       int
	NPatterns int
}

// Table maps a delta value, or a block's other-dimension, to its Entry. One
// Table is produced per candidate format.PatternType.
type Table map[int64]*Entry

func (t Table) add(key int64, nnz, npatterns int) {
	e, ok := t[key]
	if !ok {
		e = &Entry{}
		t[key] = e
	}
	e.NNZ += nnz
	e.NPatterns += npatterns
}

// Generate computes the statistics table for p's current type. p must
// already be transformed into the candidate type; minLimit is the minimum
// run frequency considered for a pattern candidate.
func Generate(p *partition.SparsePartition, minLimit int) Table {
	table := make(Table)
	block := p.Type().IsBlock()

	for _, group := range p.Groups() {
		var xs []int64

		flush := func() {
			if len(xs) == 0 {
				return
			}

			if block {
				updateStatsBlock(table, xs, minLimit, p.Type().BlockAlignment())
			} else {
				updateStats(table, xs, minLimit)
			}

			xs = nil
		}

		for _, e := range group {
			if !e.IsPattern() {
				xs = append(xs, p.Vcol(e.Row, e.Col))
				continue
			}

			flush()
		}
		flush()
	}

	return table
}

func updateStats(table Table, xs []int64, minLimit int) {
	for _, r := range rle.RunLengthEncode(rle.DeltaEncode(xs)) {
		if r.Count >= minLimit {
			table.add(r.Value, r.Count, 1)
		}
	}
}

// updateStatsBlock mirrors DRLE_Manager::updateStatsBlock: only runs of
// delta 1 are block candidates; a run's aligned length, after trimming to
// block boundaries, is credited under key other_dim = nr_elem/block_align
// as other_dim*block_align nonzeros of coverage, provided other_dim >= 2.
// The aligned length is
// computed by rle.BlockExtent, the same helper the encoder uses, so a
// candidate credited here is never one the encoder then declines.
func updateStatsBlock(table Table, xs []int64, minLimit int, blockAlign int) {
	_ = minLimit // block stats have no frequency floor beyond other_dim >= 2

	k := int64(blockAlign)
	unitStart := int64(0)
	for _, r := range rle.RunLengthEncode(rle.DeltaEncode(xs)) {
		unitStart += r.Value

		if r.Value == 1 {
			nrElem, _, _, _ := rle.BlockExtent(unitStart, r.Count, k)

			otherDim := nrElem / k
			if otherDim >= 2 {
				table.add(otherDim, int(otherDim)*blockAlign, 1)
			}
		}

		unitStart += r.Value * int64(r.Count-1)
	}
}

// Filter drops entries whose coverage fraction nnz/totalNNZ is below
// minPerc, returning the surviving table (the "deltas_to_encode" set, keyed
// the same way as the input table).
func Filter(table Table, totalNNZ int, minPerc float64) Table {
	out := make(Table, len(table))
	if totalNNZ == 0 {
		return out
	}

	for key, e := range table {
		if float64(e.NNZ)/float64(totalNNZ) < minPerc {
			continue
		}

		out[key] = &Entry{NNZ: e.NNZ, NPatterns: e.NPatterns}
	}

	return out
}

// Score sums coverage minus amortized header cost across every surviving
// entry: higher is better, 0 means nothing in this table is worth encoding.
func Score(table Table) int {
	score := 0
	for _, e := range table {
		score += e.NNZ - e.NPatterns
	}

	return score
}

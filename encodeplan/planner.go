package encodeplan

import (
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/partition"
	"github.com/gocsx/csx/stats"
)

// Plan runs the full statistics-gather/score/encode loop over p: on each
// pass it transforms p into every remaining candidate type, scores that
// type's filtered statistics table, and permanently encodes the
// highest-scoring candidate if its score clears zero. It stops when no
// candidate scores above zero, or every candidate has been tried.
//
// p is left in Horizontal order. Returns the number of passes that
// performed an encode (i.e. found a winning candidate).
func Plan(p *partition.SparsePartition, opts format.Options) int {
	ignore := make(map[format.PatternType]bool, len(opts.Ignore))
	for t, v := range opts.Ignore {
		ignore[t] = v
	}

	passes := 0

	for {
		var bestType format.PatternType
		var bestTable stats.Table
		bestScore := 0
		found := false

		for _, typ := range format.AllTypes() {
			if ignore[typ] {
				continue
			}

			p.Transform(typ)
			table := stats.Generate(p, opts.MinLimit)
			filtered := stats.Filter(table, p.NumNonzeros(), opts.MinPerc)
			p.Transform(format.Horizontal)

			score := stats.Score(filtered)
			if !found || score > bestScore {
				bestType = typ
				bestTable = filtered
				bestScore = score
				found = true
			}
		}

		if !found || bestScore <= 0 {
			return passes
		}

		Encode(p, bestType, bestTable, opts)
		ignore[bestType] = true
		passes++
	}
}

// Package encodeplan implements the per-type pattern encoder and the
// planner loop that drives it. The encoder rewrites a partition already
// transformed into a candidate type, replacing runs of plain elements that
// match a surviving delta (or block other-dimension) with pattern
// instances; the planner repeats statistics-gather/score/encode until no
// candidate clears the scoring threshold.
package encodeplan

import (
	"github.com/gocsx/csx/element"
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/internal/rle"
	"github.com/gocsx/csx/partition"
	"github.com/gocsx/csx/stats"
)

// Encode transforms p into typ and rewrites every row, replacing runs whose
// delta (or block other-dimension) appears in deltasToEncode with pattern
// instances. It restores Horizontal order before returning, leaving typ's
// stats fully consumed; the caller is responsible for adding typ to the
// planner's ignore set.
func Encode(p *partition.SparsePartition, typ format.PatternType, deltasToEncode stats.Table, opts format.Options) {
	p.Transform(typ)

	allowed := make(map[int64]bool, len(deltasToEncode))
	for k := range deltasToEncode {
		allowed[k] = true
	}

	block := typ.IsBlock()

	var newElems []element.Element
	for group, run := range p.Groups() {
		var xs []int64
		var vs []float64

		flush := func() {
			if len(xs) == 0 {
				return
			}

			if block {
				newElems = append(newElems, encodeBlockRun(typ, group, xs, vs, allowed, opts)...)
			} else {
				newElems = append(newElems, encodeLinearRun(typ, group, xs, vs, allowed, opts)...)
			}

			xs, vs = nil, nil
		}

		for _, e := range run {
			if !e.IsPattern() {
				xs = append(xs, p.Vcol(e.Row, e.Col))
				vs = append(vs, e.Value())
				continue
			}

			flush()
			newElems = append(newElems, e)
		}
		flush()
	}

	p.Replace(newElems)
	p.Transform(format.Horizontal)
}

// encodeLinearRun implements do_encode for the four non-block families: a
// pattern is emitted for every delta in allowed whose run frequency clears
// MinLimit, chunked to MaxLimit; anything left over is emitted element by
// element.
func encodeLinearRun(typ format.PatternType, group int64, xs []int64, vs []float64, allowed map[int64]bool, opts format.Options) []element.Element {
	var out []element.Element

	col := int64(0)
	vi := 0

	for _, r := range rle.RunLengthEncode(rle.DeltaEncode(xs)) {
		val, freq := r.Value, r.Count

		if allowed[val] {
			for freq >= opts.MinLimit {
				chunk := freq
				if chunk > opts.MaxLimit {
					chunk = opts.MaxLimit
				}

				col += val
				row, c := partition.FromGroupAndVcol(typ, group, col)
				values := append([]float64(nil), vs[vi:vi+chunk]...)
				desc := element.PatternDescriptor{Type: typ, Delta: int(val), Size: chunk}
				out = append(out, element.NewPattern(row, c, desc, values))

				vi += chunk
				col += val * int64(chunk-1)
				freq -= chunk
			}
		}

		for i := 0; i < freq; i++ {
			col += val
			row, c := partition.FromGroupAndVcol(typ, group, col)
			out = append(out, element.NewPlain(row, c, vs[vi]))
			vi++
		}
	}

	return out
}

// encodeBlockRun implements do_encode_block: a pattern is emitted only for
// runs of stride 1 whose aligned length clears 2*alignment and whose
// other-dimension appears in allowed. When the aligned block boundary falls
// on the immediately preceding element (already emitted plain by the prior
// run), that element is popped and its value reclaimed so the block can
// absorb it, mirroring the reference encoder's pop_back/rewind step.
func encodeBlockRun(typ format.PatternType, group int64, xs []int64, vs []float64, allowed map[int64]bool, opts format.Options) []element.Element {
	k := int64(typ.BlockAlignment())

	var out []element.Element
	col := int64(0)
	vi := 0

	for _, r := range rle.RunLengthEncode(rle.DeltaEncode(xs)) {
		col += r.Value

		if r.Value == 1 {
			nrElem, skipFront, skipBack, reabsorb := rle.BlockExtent(col, r.Count, k)
			otherDim := nrElem / k

			if allowed[otherDim] && nrElem >= 2*k {
				rleStart := col
				if reabsorb {
					out = out[:len(out)-1]
					vi--
					rleStart = col - 1
				}

				for i := int64(0); i < skipFront; i++ {
					row, c := partition.FromGroupAndVcol(typ, group, rleStart+i)
					out = append(out, element.NewPlain(row, c, vs[vi]))
					vi++
				}

				maxLimit := int64(opts.MaxLimit) / (2 * k) * (2 * k)
				if maxLimit == 0 {
					maxLimit = 2 * k
				}

				nrBlocks := nrElem / maxLimit
				nrElemBlock := nrElem
				if nrElemBlock > maxLimit {
					nrElemBlock = maxLimit
				}

				if nrBlocks == 0 {
					nrBlocks = 1
				} else {
					skipBack += nrElem - nrElemBlock*nrBlocks
				}

				for b := int64(0); b < nrBlocks; b++ {
					anchorVcol := rleStart + skipFront + b*nrElemBlock
					row, c := partition.FromGroupAndVcol(typ, group, anchorVcol)
					values := append([]float64(nil), vs[vi:vi+int(nrElemBlock)]...)
					desc := element.PatternDescriptor{Type: typ, Size: int(nrElemBlock)}
					out = append(out, element.NewPattern(row, c, desc, values))
					vi += int(nrElemBlock)
				}

				for i := int64(0); i < skipBack; i++ {
					vcol := rleStart + skipFront + nrElemBlock*nrBlocks + i
					row, c := partition.FromGroupAndVcol(typ, group, vcol)
					out = append(out, element.NewPlain(row, c, vs[vi]))
					vi++
				}

				col += r.Value * int64(r.Count-1)

				continue
			}
		}

		for i := 0; i < r.Count; i++ {
			vcol := col + r.Value*int64(i)
			row, c := partition.FromGroupAndVcol(typ, group, vcol)
			out = append(out, element.NewPlain(row, c, vs[vi]))
			vi++
		}

		col += r.Value * int64(r.Count-1)
	}

	return out
}

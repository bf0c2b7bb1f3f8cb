// Package multipartition cuts a full coordinate set row-wise into P
// non-overlapping partitions and runs one planner+assembler instance per
// partition concurrently, one goroutine per partition and no shared
// mutable state between them, then concatenates the per-partition results
// in partition-index order.
package multipartition

import (
	"runtime"
	"sort"
	"sync"

	"github.com/gocsx/csx/assembler"
	"github.com/gocsx/csx/encodeplan"
	"github.com/gocsx/csx/errs"
	"github.com/gocsx/csx/format"
	"github.com/gocsx/csx/partition"
)

// Matrix is the concatenation of every partition's CsxMatrix, in
// partition-index order, plus the row ranges needed to address a partition
// by its original (pre-split) row.
type Matrix struct {
	NumRows    int
	NumCols    int
	Partitions []*assembler.CsxMatrix
	// RowStarts[i] is the first global row (1-based) owned by Partitions[i].
	RowStarts []int
}

// Split divides coords into numWorkers row-wise partitions of a numRows x
// numCols matrix, encodes each with opts concurrently, and returns the
// assembled result. numWorkers <= 0 defaults to runtime.NumCPU(), and
// numWorkers is capped at numRows, so every partition owns at least one row.
func Split(numRows, numCols int, coords []partition.Coord, opts format.Options, numWorkers int) (*Matrix, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > numRows {
		numWorkers = numRows
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	bounds := rowBounds(numRows, numWorkers)

	byPartition := make([][]partition.Coord, len(bounds))
	for _, c := range coords {
		idx := partitionOf(bounds, c.Row)
		local := c
		local.Row = c.Row - bounds[idx].start + 1
		byPartition[idx] = append(byPartition[idx], local)
	}

	results := make([]*assembler.CsxMatrix, len(bounds))
	errsOut := make([]error, len(bounds))

	var wg sync.WaitGroup
	wg.Add(len(bounds))

	for i, b := range bounds {
		go func(i int, b rowRange) {
			defer wg.Done()

			p, err := partition.NewFromCoords(b.start, b.count, numCols, byPartition[i])
			if err != nil {
				errsOut[i] = errs.WithPartition(i, err)
				return
			}

			encodeplan.Plan(p, opts)

			mat, err := assembler.MakeCsx(p, opts)
			if err != nil {
				errsOut[i] = errs.WithPartition(i, err)
				return
			}

			results[i] = mat
		}(i, b)
	}

	wg.Wait()

	for _, err := range errsOut {
		if err != nil {
			return nil, err
		}
	}

	rowStarts := make([]int, len(bounds))
	for i, b := range bounds {
		rowStarts[i] = b.start
	}

	return &Matrix{
		NumRows:    numRows,
		NumCols:    numCols,
		Partitions: results,
		RowStarts:  rowStarts,
	}, nil
}

type rowRange struct {
	start int // 1-based global row
	count int
}

// rowBounds splits [1, numRows] into numWorkers contiguous row ranges as
// evenly as possible; the remainder rows go to the last range.
func rowBounds(numRows, numWorkers int) []rowRange {
	base := numRows / numWorkers
	remainder := numRows % numWorkers

	bounds := make([]rowRange, numWorkers)
	row := 1
	for i := 0; i < numWorkers; i++ {
		count := base
		if i == numWorkers-1 {
			count += remainder
		}
		bounds[i] = rowRange{start: row, count: count}
		row += count
	}

	return bounds
}

// partitionOf returns the index of the partition owning global row.
func partitionOf(bounds []rowRange, row int) int {
	return sort.Search(len(bounds), func(i int) bool {
		return bounds[i].start+bounds[i].count > row
	})
}

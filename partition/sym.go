package partition

import "github.com/gocsx/csx/errs"

// SplitSymmetric separates a symmetric matrix's coordinate triples into its
// main diagonal (dense, indexed 0..n-1) and its strictly-lower triangle
// (row > col), mirroring the original's GetDiagonal/GetLowerMatrix split.
// Upper-triangle entries (row < col) are assumed to be the mirror image of
// their lower-triangle counterpart and are dropped; callers that pass an
// asymmetric coordinate set get whichever half happens to satisfy row > col.
func SplitSymmetric(n int, coords []Coord) (diagonal []float64, lower []Coord, err error) {
	diagonal = make([]float64, n)

	for _, c := range coords {
		if c.Row < 1 || c.Row > n || c.Col < 1 || c.Col > n {
			return nil, nil, errs.ErrInvalidCoordinate
		}

		switch {
		case c.Row == c.Col:
			diagonal[c.Row-1] = c.Val
		case c.Row > c.Col:
			lower = append(lower, c)
		}
	}

	return diagonal, lower, nil
}

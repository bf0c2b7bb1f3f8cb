// Package errs collects the sentinel errors shared across the encoder
// packages; callers wrap them with fmt.Errorf's %w, so errors.Is matches
// them.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCoordinate is returned when a coordinate triple falls
	// outside the declared row/column bounds of a partition.
	ErrInvalidCoordinate = errors.New("csx: coordinate out of range")

	// ErrDuplicateCoordinate is returned when two triples name the same
	// (row, col) during partition construction.
	ErrDuplicateCoordinate = errors.New("csx: duplicate coordinate")

	// ErrInvalidPattern is returned when a pattern descriptor violates the
	// minimum-size or block-alignment invariants.
	ErrInvalidPattern = errors.New("csx: invalid pattern descriptor")

	// ErrLimitExceeded is returned when assembly would need to assign more
	// than format.CtlPatternsMax distinct flags.
	ErrLimitExceeded = errors.New("csx: too many distinct patterns for control stream flags")

	// ErrEncodingOverflow is returned when a control-stream reader runs out
	// of bytes before a unit finishes decoding.
	ErrEncodingOverflow = errors.New("csx: control stream read past end")

	// ErrAllocatorFailure wraps a failure from a caller-supplied allocator.
	ErrAllocatorFailure = errors.New("csx: allocator failure")

	// ErrUnsupportedCompression is returned by the persist package for an
	// unrecognized format.CompressionType.
	ErrUnsupportedCompression = errors.New("csx: unsupported compression type")
)

// PartitionError attaches the owning partition's index to an error
// propagated out of the encoder. The planner aborts the whole partition on
// the first recognized error kind rather than attempting local recovery.
type PartitionError struct {
	PartitionIndex int
	Err            error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("csx: partition %d: %v", e.PartitionIndex, e.Err)
}

func (e *PartitionError) Unwrap() error { return e.Err }

// WithPartition wraps err, if non-nil, with the owning partition's index.
func WithPartition(index int, err error) error {
	if err == nil {
		return nil
	}

	return &PartitionError{PartitionIndex: index, Err: err}
}

package sparse

import "errors"

var (
	// ErrDimensionMismatch indicates coordinate/value slices of unequal
	// length, or an operand whose shape does not line up with the receiver.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrIndexOutOfRange indicates a coordinate outside [0, rows)×[0, cols).
	ErrIndexOutOfRange = errors.New("sparse: index out of range")

	// ErrNegativeShape indicates a negative row or column count.
	ErrNegativeShape = errors.New("sparse: negative matrix shape")

	// ErrBadDropRate indicates a dropout probability outside [0, 1].
	ErrBadDropRate = errors.New("sparse: drop rate must be in [0, 1]")
)

// COO is a sparse matrix in coordinate format: parallel slices of row
// indices, column indices and values. Entries are stored in construction
// order; duplicates are not coalesced (callers in this module never produce
// them). The zero value is an empty 0×0 matrix.
type COO struct {
	r, c int
	rows []int
	cols []int
	vals []float64
}

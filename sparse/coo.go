package sparse

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// New builds a COO matrix of shape r×c from coordinate triplets.
// The three slices must have equal length and every coordinate must lie in
// [0, r)×[0, c). The slices are copied; the caller keeps ownership.
//
// Complexity: O(nnz).
func New(r, c int, rows, cols []int, vals []float64) (*COO, error) {
	if r < 0 || c < 0 {
		return nil, ErrNegativeShape
	}
	if len(rows) != len(cols) || len(rows) != len(vals) {
		return nil, ErrDimensionMismatch
	}
	for i := range rows {
		if rows[i] < 0 || rows[i] >= r || cols[i] < 0 || cols[i] >= c {
			return nil, ErrIndexOutOfRange
		}
	}
	m := &COO{
		r:    r,
		c:    c,
		rows: append([]int(nil), rows...),
		cols: append([]int(nil), cols...),
		vals: append([]float64(nil), vals...),
	}

	return m, nil
}

// Diag builds an n×n diagonal matrix from vals, where n = len(vals).
// Zero values are stored explicitly so the diagonal pattern is always
// exactly n entries; this keeps value substitution and row sums aligned.
//
// Complexity: O(n).
func Diag(vals []float64) *COO {
	n := len(vals)
	m := &COO{
		r:    n,
		c:    n,
		rows: make([]int, n),
		cols: make([]int, n),
		vals: append([]float64(nil), vals...),
	}
	for i := 0; i < n; i++ {
		m.rows[i] = i
		m.cols[i] = i
	}

	return m
}

// Dims returns the matrix shape (rows, cols).
func (m *COO) Dims() (r, c int) { return m.r, m.c }

// NNZ returns the number of stored entries (explicit zeros included).
func (m *COO) NNZ() int { return len(m.vals) }

// Values returns a copy of the stored values, in storage order.
func (m *COO) Values() []float64 {
	return append([]float64(nil), m.vals...)
}

// RowIndices returns a copy of the stored row coordinates, in storage order.
func (m *COO) RowIndices() []int {
	return append([]int(nil), m.rows...)
}

// ColIndices returns a copy of the stored column coordinates, in storage order.
func (m *COO) ColIndices() []int {
	return append([]int(nil), m.cols...)
}

// Clone returns a deep copy of the matrix.
//
// Complexity: O(nnz).
func (m *COO) Clone() *COO {
	return &COO{
		r:    m.r,
		c:    m.c,
		rows: append([]int(nil), m.rows...),
		cols: append([]int(nil), m.cols...),
		vals: append([]float64(nil), m.vals...),
	}
}

// T returns the transpose as a new matrix. Entries keep their storage order.
//
// Complexity: O(nnz).
func (m *COO) T() *COO {
	return &COO{
		r:    m.c,
		c:    m.r,
		rows: append([]int(nil), m.cols...),
		cols: append([]int(nil), m.rows...),
		vals: append([]float64(nil), m.vals...),
	}
}

// WithValues returns a new matrix with the receiver's sparsity pattern and
// the supplied values substituted entry-for-entry (storage order). It is the
// primitive behind caller-supplied connection-weight vectors: the structure
// stays fixed, only the propagation weights change.
// Returns ErrDimensionMismatch when len(vals) != NNZ().
//
// Complexity: O(nnz).
func (m *COO) WithValues(vals []float64) (*COO, error) {
	if len(vals) != len(m.vals) {
		return nil, ErrDimensionMismatch
	}

	return &COO{
		r:    m.r,
		c:    m.c,
		rows: m.rows, // pattern slices are never mutated; sharing is safe
		cols: m.cols,
		vals: append([]float64(nil), vals...),
	}, nil
}

// MulDense computes the sparse×dense product m·x and returns a new dense
// matrix of shape (m.rows × xCols). Returns ErrDimensionMismatch when the
// inner dimensions disagree.
//
// Complexity: O(nnz · xCols).
func (m *COO) MulDense(x *mat.Dense) (*mat.Dense, error) {
	xr, xc := x.Dims()
	if xr != m.c {
		return nil, ErrDimensionMismatch
	}
	out := mat.NewDense(m.r, xc, nil)
	for k, v := range m.vals {
		if v == 0 {
			continue
		}
		dst := out.RawRowView(m.rows[k])
		floats.AddScaled(dst, v, x.RawRowView(m.cols[k]))
	}

	return out, nil
}

// ConcatCols concatenates matrices along the column axis, offsetting column
// indices block by block. All operands must share the same row count; with
// no operands the result is an empty rows×0 matrix.
//
// Complexity: O(Σ nnz).
func ConcatCols(rows int, mats ...*COO) (*COO, error) {
	totalCols, totalNNZ := 0, 0
	for _, m := range mats {
		if m.r != rows {
			return nil, ErrDimensionMismatch
		}
		totalCols += m.c
		totalNNZ += len(m.vals)
	}

	out := &COO{
		r:    rows,
		c:    totalCols,
		rows: make([]int, 0, totalNNZ),
		cols: make([]int, 0, totalNNZ),
		vals: make([]float64, 0, totalNNZ),
	}
	offset := 0
	for _, m := range mats {
		out.rows = append(out.rows, m.rows...)
		for _, c := range m.cols {
			out.cols = append(out.cols, c+offset)
		}
		out.vals = append(out.vals, m.vals...)
		offset += m.c
	}

	return out, nil
}

// RowSums returns the sum of stored values per row, as a dense vector of
// length m.rows.
//
// Complexity: O(nnz).
func (m *COO) RowSums() []float64 {
	sums := make([]float64, m.r)
	for k, v := range m.vals {
		sums[m.rows[k]] += v
	}

	return sums
}

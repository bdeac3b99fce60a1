package sparse_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/hyperlath/sparse"
)

// TestNew_Errors verifies construction rejects malformed coordinates.
func TestNew_Errors(t *testing.T) {
	cases := []struct {
		name string
		r, c int
		rows []int
		cols []int
		vals []float64
		err  error
	}{
		{"NegativeShape", -1, 2, nil, nil, nil, sparse.ErrNegativeShape},
		{"LengthMismatch", 2, 2, []int{0}, []int{0, 1}, []float64{1, 2}, sparse.ErrDimensionMismatch},
		{"RowOutOfRange", 2, 2, []int{2}, []int{0}, []float64{1}, sparse.ErrIndexOutOfRange},
		{"ColOutOfRange", 2, 2, []int{0}, []int{-1}, []float64{1}, sparse.ErrIndexOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sparse.New(tc.r, tc.c, tc.rows, tc.cols, tc.vals)
			if !errors.Is(err, tc.err) {
				t.Errorf("New error = %v; want %v", err, tc.err)
			}
		})
	}
}

// TestNew_CopiesInput ensures the constructor does not alias caller slices.
func TestNew_CopiesInput(t *testing.T) {
	rows, cols, vals := []int{0, 1}, []int{1, 0}, []float64{2, 3}
	m, err := sparse.New(2, 2, rows, cols, vals)
	require.NoError(t, err)

	vals[0] = 99
	require.Equal(t, []float64{2, 3}, m.Values())
}

// TestDiag verifies shape, pattern and explicit zeros of Diag.
func TestDiag(t *testing.T) {
	d := sparse.Diag([]float64{3, 0, 2})
	r, c := d.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 3, c)
	require.Equal(t, 3, d.NNZ(), "explicit zero must stay on the pattern")
	require.Equal(t, []float64{3, 0, 2}, d.Values())
	require.Equal(t, []int{0, 1, 2}, d.RowIndices())
	require.Equal(t, []int{0, 1, 2}, d.ColIndices())
}

// TestTranspose verifies T swaps shape and coordinates, preserving order.
func TestTranspose(t *testing.T) {
	m, err := sparse.New(2, 3, []int{0, 1, 1}, []int{2, 0, 1}, []float64{5, 6, 7})
	require.NoError(t, err)

	mt := m.T()
	r, c := mt.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	require.Equal(t, []int{2, 0, 1}, mt.RowIndices())
	require.Equal(t, []int{0, 1, 1}, mt.ColIndices())
	require.Equal(t, []float64{5, 6, 7}, mt.Values())
}

// TestWithValues verifies value substitution on a fixed pattern.
func TestWithValues(t *testing.T) {
	m, err := sparse.New(2, 2, []int{0, 1}, []int{0, 1}, []float64{1, 1})
	require.NoError(t, err)

	sub, err := m.WithValues([]float64{4, 9})
	require.NoError(t, err)
	require.Equal(t, []float64{4, 9}, sub.Values())
	require.Equal(t, []float64{1, 1}, m.Values(), "receiver must stay intact")

	_, err = m.WithValues([]float64{1})
	require.ErrorIs(t, err, sparse.ErrDimensionMismatch)
}

// TestMulDense checks the sparse×dense product against a hand computation.
func TestMulDense(t *testing.T) {
	// H for edges {0,1,2} and {1,2,3} over 4 vertices, transposed (2×4).
	ht, err := sparse.New(2, 4,
		[]int{0, 0, 0, 1, 1, 1},
		[]int{0, 1, 2, 1, 2, 3},
		[]float64{1, 1, 1, 1, 1, 1},
	)
	require.NoError(t, err)

	x := mat.NewDense(4, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
		2, 0,
	})
	y, err := ht.MulDense(x)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 2}, y.RawRowView(0))
	require.Equal(t, []float64{3, 2}, y.RawRowView(1))

	_, err = ht.MulDense(mat.NewDense(3, 2, nil))
	require.ErrorIs(t, err, sparse.ErrDimensionMismatch)
}

// TestConcatCols verifies block concatenation along the column axis.
func TestConcatCols(t *testing.T) {
	a, err := sparse.New(2, 2, []int{0, 1}, []int{0, 1}, []float64{1, 2})
	require.NoError(t, err)
	b, err := sparse.New(2, 1, []int{1}, []int{0}, []float64{3})
	require.NoError(t, err)

	m, err := sparse.ConcatCols(2, a, b)
	require.NoError(t, err)
	r, c := m.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)
	require.Equal(t, []int{0, 1, 1}, m.RowIndices())
	require.Equal(t, []int{0, 1, 2}, m.ColIndices(), "second block's columns must be offset")
	require.Equal(t, []float64{1, 2, 3}, m.Values())

	empty, err := sparse.ConcatCols(2)
	require.NoError(t, err)
	r, c = empty.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 0, c)

	wrong, err := sparse.New(3, 1, nil, nil, nil)
	require.NoError(t, err)
	_, err = sparse.ConcatCols(2, a, wrong)
	require.ErrorIs(t, err, sparse.ErrDimensionMismatch)
}

// TestRowSums covers summation including empty rows and explicit zeros.
func TestRowSums(t *testing.T) {
	m, err := sparse.New(3, 2, []int{0, 0, 2}, []int{0, 1, 1}, []float64{1.5, 2.5, 0})
	require.NoError(t, err)
	require.Equal(t, []float64{4, 0, 0}, m.RowSums())
}

// TestRowSoftmax verifies per-row normalization over stored entries only.
func TestRowSoftmax(t *testing.T) {
	m, err := sparse.New(2, 3,
		[]int{0, 0, 1},
		[]int{0, 1, 2},
		[]float64{1, 1, 3},
	)
	require.NoError(t, err)

	sm := m.RowSoftmax()
	vals := sm.Values()
	require.InDelta(t, 0.5, vals[0], 1e-12)
	require.InDelta(t, 0.5, vals[1], 1e-12)
	require.InDelta(t, 1.0, vals[2], 1e-12, "single entry rows normalize to 1")
	require.Equal(t, []float64{1, 1, 3}, m.Values(), "receiver must stay intact")
}

// TestRowSoftmax_Stability checks large magnitudes do not overflow.
func TestRowSoftmax_Stability(t *testing.T) {
	m, err := sparse.New(1, 2, []int{0, 0}, []int{0, 1}, []float64{1000, 1000})
	require.NoError(t, err)

	vals := m.RowSoftmax().Values()
	require.InDelta(t, 0.5, vals[0], 1e-12)
	require.False(t, math.IsNaN(vals[0]))
}

// TestDropout covers the p=0 identity, p=1 zeroing and rate validation.
func TestDropout(t *testing.T) {
	m, err := sparse.New(2, 2, []int{0, 0, 1}, []int{0, 1, 1}, []float64{1, 2, 3})
	require.NoError(t, err)
	src := rand.NewSource(1)

	same, err := m.Dropout(0, src)
	require.NoError(t, err)
	require.Same(t, m, same, "p=0 must be the identity, bit for bit")

	zeroed, err := m.Dropout(1, src)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0}, zeroed.Values())
	require.Equal(t, m.NNZ(), zeroed.NNZ(), "pattern must be preserved")

	_, err = m.Dropout(1.5, src)
	require.ErrorIs(t, err, sparse.ErrBadDropRate)
	_, err = m.Dropout(-0.1, src)
	require.ErrorIs(t, err, sparse.ErrBadDropRate)
}

// TestDropout_Deterministic verifies identical seeds give identical masks.
func TestDropout_Deterministic(t *testing.T) {
	rows := make([]int, 100)
	cols := make([]int, 100)
	vals := make([]float64, 100)
	for i := range rows {
		rows[i] = i % 10
		cols[i] = i / 10
		vals[i] = 1
	}
	m, err := sparse.New(10, 10, rows, cols, vals)
	require.NoError(t, err)

	a, err := m.Dropout(0.5, rand.NewSource(42))
	require.NoError(t, err)
	b, err := m.Dropout(0.5, rand.NewSource(42))
	require.NoError(t, err)
	require.Equal(t, a.Values(), b.Values())
}

// TestScaleRows verifies in-place dense row scaling.
func TestScaleRows(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, sparse.ScaleRows(x, []float64{2, 0}))
	require.Equal(t, []float64{2, 4}, x.RawRowView(0))
	require.Equal(t, []float64{0, 0}, x.RawRowView(1))

	require.ErrorIs(t, sparse.ScaleRows(x, []float64{1}), sparse.ErrDimensionMismatch)
}

// TestInvVectors verifies the 0⁻¹ = 0 clamping convention.
func TestInvVectors(t *testing.T) {
	inv := sparse.InvVector([]float64{2, 0, 4})
	require.Equal(t, []float64{0.5, 0, 0.25}, inv)

	invSqrt := sparse.InvSqrtVector([]float64{4, 0, 16})
	require.Equal(t, []float64{0.5, 0, 0.25}, invSqrt)

	for _, v := range append(inv, invSqrt...) {
		require.False(t, math.IsInf(v, 0))
		require.False(t, math.IsNaN(v))
	}
}

package sparse

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// RowSoftmax returns a new matrix where each row's stored entries are
// replaced by their softmax. Only stored entries participate — absent
// entries contribute nothing to the denominator. Values are max-shifted per
// row before exponentiation for numeric stability. Rows without stored
// entries are unaffected (they have no entries to rewrite).
//
// Complexity: O(nnz) time, O(rows) extra space.
func (m *COO) RowSoftmax() *COO {
	rowMax := make([]float64, m.r)
	for i := range rowMax {
		rowMax[i] = math.Inf(-1)
	}
	for k, v := range m.vals {
		if v > rowMax[m.rows[k]] {
			rowMax[m.rows[k]] = v
		}
	}

	out := m.Clone()
	denom := make([]float64, m.r)
	for k, v := range out.vals {
		e := math.Exp(v - rowMax[out.rows[k]])
		out.vals[k] = e
		denom[out.rows[k]] += e
	}
	for k := range out.vals {
		out.vals[k] /= denom[out.rows[k]]
	}

	return out
}

// Dropout performs an independent Bernoulli keep-trial with probability 1−p
// on every stored entry. Dropped entries are zeroed in place of removal, so
// the returned matrix has the same shape and sparsity pattern. Kept entries
// are not rescaled. p == 0 returns the receiver unchanged; p must lie in
// [0, 1] or ErrBadDropRate is returned.
//
// Randomness is drawn freshly from src on every call — results are never
// cached.
//
// Complexity: O(nnz).
func (m *COO) Dropout(p float64, src rand.Source) (*COO, error) {
	if p < 0 || p > 1 {
		return nil, ErrBadDropRate
	}
	if p == 0 {
		return m, nil
	}

	out := m.Clone()
	if p == 1 {
		for k := range out.vals {
			out.vals[k] = 0
		}

		return out, nil
	}

	keep := distuv.Bernoulli{P: 1 - p, Src: src}
	for k := range out.vals {
		if keep.Rand() == 0 {
			out.vals[k] = 0
		}
	}

	return out, nil
}

// ScaleRows scales each row of the dense matrix x by the corresponding entry
// of s, in place. Returns ErrDimensionMismatch when len(s) differs from the
// row count of x.
//
// Complexity: O(rows · cols).
func ScaleRows(x *mat.Dense, s []float64) error {
	xr, _ := x.Dims()
	if xr != len(s) {
		return ErrDimensionMismatch
	}
	for i := 0; i < xr; i++ {
		floats.Scale(s[i], x.RawRowView(i))
	}

	return nil
}

// InvVector returns the elementwise inverse of v with the 0⁻¹ = 0
// convention: zero entries map to zero rather than +Inf, keeping degree-zero
// rows neutral in subsequent products.
func InvVector(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if x != 0 {
			out[i] = 1 / x
		}
	}

	return out
}

// InvSqrtVector returns the elementwise x^{-1/2} of v, with 0 mapping to 0
// under the same convention as InvVector.
func InvSqrtVector(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if x != 0 {
			out[i] = 1 / math.Sqrt(x)
		}
	}

	return out
}

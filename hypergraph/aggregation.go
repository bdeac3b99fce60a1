package hypergraph

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/hyperlath/sparse"
)

// propagation resolves the matrix a message-passing step multiplies with:
// the structural incidence by default, or the same sparsity pattern with a
// caller-supplied weight vector substituted, with dropout applied last.
func (h *Hypergraph) propagation(base *sparse.COO, weight []float64, dropRate float64) (*sparse.COO, error) {
	p := base
	if weight != nil {
		var err error
		p, err = base.WithValues(weight)
		if err != nil {
			return nil, fmt.Errorf("%w: connection weight vector must have %d entries, got %d",
				ErrShapeMismatch, base.NNZ(), len(weight))
		}
	}
	if dropRate > 0 {
		var err error
		p, err = p.Dropout(dropRate, h.src)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// aggregate performs P·X under the selected aggregation semantics.
// Mean normalizes by the structural inverse degree (degInv) on the default
// path, but by the inverse of P's actual, possibly dropout-reduced, row sums
// when an explicit weight vector was supplied. The two paths are
// intentionally different.
func aggregate(p *sparse.COO, x *mat.Dense, aggr AggrMethod, degInv []float64, explicit bool) (*mat.Dense, error) {
	switch aggr {
	case AggrSum:
		return p.MulDense(x)
	case AggrMean:
		y, err := p.MulDense(x)
		if err != nil {
			return nil, err
		}
		norm := degInv
		if explicit {
			norm = sparse.InvVector(p.RowSums())
		}
		if err = sparse.ScaleRows(y, norm); err != nil {
			return nil, err
		}

		return y, nil
	case AggrSoftmaxThenSum:
		return p.RowSoftmax().MulDense(x)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAggregation, aggr)
	}
}

// V2EAggregation maps a vertex-indexed feature matrix (NumV × C) to a
// hyperedge-indexed one (NumE × C). The propagation matrix is Hᵗ, or its
// pattern with o.Weight substituted; o.DropRate zeroes incidence entries
// with fresh randomness before the multiply.
func (h *Hypergraph) V2EAggregation(x *mat.Dense, aggr AggrMethod, o AggrOptions) (*mat.Dense, error) {
	start := time.Now()
	y, err := h.v2eAggregation(x, aggr, o)
	observeAggregation("v2e", aggr, err, start)

	return y, err
}

func (h *Hypergraph) v2eAggregation(x *mat.Dense, aggr AggrMethod, o AggrOptions) (*mat.Dense, error) {
	if !aggr.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAggregation, aggr)
	}
	if xr, _ := x.Dims(); xr != h.numV {
		return nil, fmt.Errorf("%w: feature matrix has %d rows, want num_v=%d", ErrShapeMismatch, xr, h.numV)
	}
	p, err := h.propagation(h.HT(), o.Weight, o.DropRate)
	if err != nil {
		return nil, err
	}

	return aggregate(p, x, aggr, h.DENeg1().Values(), o.Weight != nil)
}

// V2EUpdate scales each hyperedge's feature row by its own weight: the
// stored W_e diagonal, or a caller-supplied vector of length NumE.
func (h *Hypergraph) V2EUpdate(x *mat.Dense, eWeight []float64) (*mat.Dense, error) {
	numE := h.NumE()
	if xr, _ := x.Dims(); xr != numE {
		return nil, fmt.Errorf("%w: feature matrix has %d rows, want num_e=%d", ErrShapeMismatch, xr, numE)
	}
	if eWeight == nil {
		eWeight = h.WE().Values()
	} else if len(eWeight) != numE {
		return nil, fmt.Errorf("%w: e_weight has %d entries, want num_e=%d", ErrShapeMismatch, len(eWeight), numE)
	}

	out := mat.DenseCopyOf(x)
	if err := sparse.ScaleRows(out, eWeight); err != nil {
		return nil, err
	}

	return out, nil
}

// V2E is the composed vertex→hyperedge operator: V2EAggregation followed
// by V2EUpdate.
func (h *Hypergraph) V2E(x *mat.Dense, aggr AggrMethod, eWeight []float64, o AggrOptions) (*mat.Dense, error) {
	y, err := h.V2EAggregation(x, aggr, o)
	if err != nil {
		return nil, err
	}

	return h.V2EUpdate(y, eWeight)
}

// E2VAggregation maps a hyperedge-indexed feature matrix (NumE × C) to a
// vertex-indexed one (NumV × C), propagating over H (not its transpose)
// and normalizing mean aggregation with D_v.
func (h *Hypergraph) E2VAggregation(x *mat.Dense, aggr AggrMethod, o AggrOptions) (*mat.Dense, error) {
	start := time.Now()
	y, err := h.e2vAggregation(x, aggr, o)
	observeAggregation("e2v", aggr, err, start)

	return y, err
}

func (h *Hypergraph) e2vAggregation(x *mat.Dense, aggr AggrMethod, o AggrOptions) (*mat.Dense, error) {
	if !aggr.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAggregation, aggr)
	}
	if xr, _ := x.Dims(); xr != h.NumE() {
		return nil, fmt.Errorf("%w: feature matrix has %d rows, want num_e=%d", ErrShapeMismatch, xr, h.NumE())
	}
	p, err := h.propagation(h.H(), o.Weight, o.DropRate)
	if err != nil {
		return nil, err
	}

	return aggregate(p, x, aggr, h.DVNeg1().Values(), o.Weight != nil)
}

// E2VUpdate is an identity pass-through: the hyperedge→vertex update step
// applies no per-vertex rescaling. Downstream models are trained against
// this asymmetry with V2EUpdate; do not add a symmetric rescale.
func (h *Hypergraph) E2VUpdate(x *mat.Dense) *mat.Dense { return x }

// E2V is the composed hyperedge→vertex operator: E2VAggregation followed
// by the identity E2VUpdate.
func (h *Hypergraph) E2V(x *mat.Dense, aggr AggrMethod, o AggrOptions) (*mat.Dense, error) {
	y, err := h.E2VAggregation(x, aggr, o)
	if err != nil {
		return nil, err
	}

	return h.E2VUpdate(y), nil
}

// V2V is the full round trip vertex→hyperedge→vertex: E2V ∘ V2E. Each
// stage's aggregation method and drop rate default to the top-level aggr
// and dropRate but may be overridden per stage through o.
func (h *Hypergraph) V2V(x *mat.Dense, aggr AggrMethod, dropRate float64, o V2VOptions) (*mat.Dense, error) {
	v2eAggr, e2vAggr := o.V2EAggr, o.E2VAggr
	if v2eAggr == "" {
		v2eAggr = aggr
	}
	if e2vAggr == "" {
		e2vAggr = aggr
	}
	v2eRate, e2vRate := o.V2EDropRate, o.E2VDropRate
	if math.IsNaN(v2eRate) {
		v2eRate = dropRate
	}
	if math.IsNaN(e2vRate) {
		e2vRate = dropRate
	}

	y, err := h.V2E(x, v2eAggr, o.EdgeWeight, AggrOptions{Weight: o.V2EWeight, DropRate: v2eRate})
	if err != nil {
		return nil, err
	}

	return h.E2V(y, e2vAggr, AggrOptions{Weight: o.E2VWeight, DropRate: e2vRate})
}

// Smoothing applies spectral smoothing X + λ·L·X for a sparse Laplacian L
// over the vertex set.
func (h *Hypergraph) Smoothing(x *mat.Dense, l *sparse.COO, lamb float64) (*mat.Dense, error) {
	lr, _ := l.Dims()
	xr, _ := x.Dims()
	if lr != xr {
		return nil, ErrShapeMismatch
	}
	y, err := l.MulDense(x)
	if err != nil {
		if errors.Is(err, sparse.ErrDimensionMismatch) {
			return nil, ErrShapeMismatch
		}

		return nil, err
	}

	out := mat.DenseCopyOf(x)
	for i := 0; i < xr; i++ {
		floats.AddScaled(out.RawRowView(i), lamb, y.RawRowView(i))
	}

	return out, nil
}

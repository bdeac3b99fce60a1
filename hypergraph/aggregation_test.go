package hypergraph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// vertexFeatures is the 4×2 feature matrix used by the aggregation tests.
func vertexFeatures() *mat.Dense {
	return mat.NewDense(4, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
		2, 0,
	})
}

func requireDenseEqual(t *testing.T, want [][]float64, got *mat.Dense) {
	t.Helper()
	r, c := got.Dims()
	require.Equal(t, len(want), r)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			require.InDelta(t, want[i][j], got.At(i, j), 1e-12, "row %d col %d", i, j)
		}
	}
}

func TestV2EAggregation_Sum(t *testing.T) {
	h := newTestGraph(t)

	y, err := h.V2EAggregation(vertexFeatures(), AggrSum, DefaultAggrOptions())
	require.NoError(t, err)
	requireDenseEqual(t, [][]float64{
		{2, 2}, // x0 + x1 + x2
		{3, 2}, // x1 + x2 + x3
	}, y)
}

func TestV2EAggregation_Mean(t *testing.T) {
	h := newTestGraph(t)

	y, err := h.V2EAggregation(vertexFeatures(), AggrMean, DefaultAggrOptions())
	require.NoError(t, err)
	requireDenseEqual(t, [][]float64{
		{2.0 / 3, 2.0 / 3},
		{1, 2.0 / 3},
	}, y)
}

func TestV2EAggregation_SoftmaxThenSum(t *testing.T) {
	h := newTestGraph(t)

	// All incidence entries are 1.0, so the softmax weights within each
	// hyperedge row are uniform and the result equals the mean.
	y, err := h.V2EAggregation(vertexFeatures(), AggrSoftmaxThenSum, DefaultAggrOptions())
	require.NoError(t, err)
	requireDenseEqual(t, [][]float64{
		{2.0 / 3, 2.0 / 3},
		{1, 2.0 / 3},
	}, y)
}

func TestV2EAggregation_ExplicitWeightMean(t *testing.T) {
	h := newTestGraph(t)

	// One weight per stored Hᵗ entry, in storage order:
	// (e0,v0) (e0,v1) (e0,v2) (e1,v1) (e1,v2) (e1,v3).
	w := []float64{2, 1, 1, 1, 1, 2}
	y, err := h.V2EAggregation(vertexFeatures(), AggrMean, AggrOptions{Weight: w})
	require.NoError(t, err)

	// Mean on the explicit-weight path divides by the actual row sums (4, 4),
	// not the structural hyperedge degrees.
	requireDenseEqual(t, [][]float64{
		{3.0 / 4, 2.0 / 4}, // 2·x0 + 1·x1 + 1·x2
		{5.0 / 4, 2.0 / 4}, // 1·x1 + 1·x2 + 2·x3
	}, y)
}

func TestV2EAggregation_Errors(t *testing.T) {
	h := newTestGraph(t)

	_, err := h.V2EAggregation(vertexFeatures(), AggrMethod("median"), DefaultAggrOptions())
	require.ErrorIs(t, err, ErrUnsupportedAggregation)

	_, err = h.V2EAggregation(mat.NewDense(3, 2, nil), AggrSum, DefaultAggrOptions())
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = h.V2EAggregation(vertexFeatures(), AggrSum, AggrOptions{Weight: []float64{1, 2}})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestV2EUpdate(t *testing.T) {
	h := newTestGraph(t)

	y, err := h.V2EAggregation(vertexFeatures(), AggrSum, DefaultAggrOptions())
	require.NoError(t, err)

	// Stored hyperedge weights are (1, 2).
	out, err := h.V2EUpdate(y, nil)
	require.NoError(t, err)
	requireDenseEqual(t, [][]float64{
		{2, 2},
		{6, 4},
	}, out)

	// A caller-supplied vector overrides the stored weights.
	out, err = h.V2EUpdate(y, []float64{10, 100})
	require.NoError(t, err)
	requireDenseEqual(t, [][]float64{
		{20, 20},
		{300, 200},
	}, out)

	_, err = h.V2EUpdate(y, []float64{1})
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = h.V2EUpdate(vertexFeatures(), nil)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestV2E_Composed(t *testing.T) {
	h := newTestGraph(t)

	y, err := h.V2E(vertexFeatures(), AggrSum, nil, DefaultAggrOptions())
	require.NoError(t, err)
	requireDenseEqual(t, [][]float64{
		{2, 2},
		{6, 4},
	}, y)
}

func TestE2VAggregation_Sum(t *testing.T) {
	h := newTestGraph(t)
	edgeX := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})

	y, err := h.E2VAggregation(edgeX, AggrSum, DefaultAggrOptions())
	require.NoError(t, err)
	requireDenseEqual(t, [][]float64{
		{1, 2}, // e0 only
		{4, 6}, // e0 + e1
		{4, 6},
		{3, 4}, // e1 only
	}, y)
}

func TestE2VAggregation_Mean(t *testing.T) {
	h := newTestGraph(t)
	edgeX := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})

	// Mean normalizes by the edge-weighted vertex degrees (1, 3, 3, 2), not
	// by incident edge counts.
	y, err := h.E2VAggregation(edgeX, AggrMean, DefaultAggrOptions())
	require.NoError(t, err)
	requireDenseEqual(t, [][]float64{
		{1, 2},
		{4.0 / 3, 2},
		{4.0 / 3, 2},
		{1.5, 2},
	}, y)
}

func TestE2VAggregation_IsolatedVertexZeroRow(t *testing.T) {
	h, err := New(5, WithEdgeList([][]int{{0, 1, 2}, {1, 2, 3}}))
	require.NoError(t, err)
	edgeX := mat.NewDense(2, 1, []float64{1, 1})

	y, err := h.E2VAggregation(edgeX, AggrMean, DefaultAggrOptions())
	require.NoError(t, err)
	require.Equal(t, 0.0, y.At(4, 0))
}

func TestE2VUpdate_Identity(t *testing.T) {
	h := newTestGraph(t)
	x := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	require.Same(t, x, h.E2VUpdate(x))
}

func TestE2VAggregation_Errors(t *testing.T) {
	h := newTestGraph(t)

	_, err := h.E2VAggregation(mat.NewDense(3, 1, nil), AggrSum, DefaultAggrOptions())
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = h.E2VAggregation(mat.NewDense(2, 1, nil), AggrMethod(""), DefaultAggrOptions())
	require.ErrorIs(t, err, ErrUnsupportedAggregation)
}

func TestDropout_FullRateZeroesEverything(t *testing.T) {
	h := newTestGraph(t)

	y, err := h.V2EAggregation(vertexFeatures(), AggrSum, AggrOptions{DropRate: 1})
	require.NoError(t, err)
	requireDenseEqual(t, [][]float64{
		{0, 0},
		{0, 0},
	}, y)
}

func TestDropout_ZeroRateIsExact(t *testing.T) {
	h := newTestGraph(t)

	base, err := h.V2EAggregation(vertexFeatures(), AggrSum, DefaultAggrOptions())
	require.NoError(t, err)
	same, err := h.V2EAggregation(vertexFeatures(), AggrSum, AggrOptions{DropRate: 0})
	require.NoError(t, err)
	require.Equal(t, base.RawMatrix().Data, same.RawMatrix().Data)
}

func TestDropout_Deterministic(t *testing.T) {
	build := func() *Hypergraph {
		h, err := New(4,
			WithEdgeList([][]int{{0, 1, 2}, {1, 2, 3}}),
			WithSeed(42),
		)
		require.NoError(t, err)

		return h
	}

	a, err := build().V2EAggregation(vertexFeatures(), AggrSum, AggrOptions{DropRate: 0.5})
	require.NoError(t, err)
	b, err := build().V2EAggregation(vertexFeatures(), AggrSum, AggrOptions{DropRate: 0.5})
	require.NoError(t, err)
	require.Equal(t, a.RawMatrix().Data, b.RawMatrix().Data)
}

func TestDropout_InvalidRate(t *testing.T) {
	h := newTestGraph(t)

	_, err := h.V2EAggregation(vertexFeatures(), AggrSum, AggrOptions{DropRate: 1.5})
	require.Error(t, err)
	_, err = h.E2VAggregation(mat.NewDense(2, 1, nil), AggrSum, AggrOptions{DropRate: -0.1})
	require.Error(t, err)
}

func TestV2V(t *testing.T) {
	h := newTestGraph(t)

	y, err := h.V2V(vertexFeatures(), AggrSum, 0, DefaultV2VOptions())
	require.NoError(t, err)

	// V2E sum + weight update gives (2,2) and (6,4); E2V sum scatters them
	// back over each edge's members.
	requireDenseEqual(t, [][]float64{
		{2, 2},
		{8, 6},
		{8, 6},
		{6, 4},
	}, y)
}

func TestV2V_PerStageOverrides(t *testing.T) {
	h := newTestGraph(t)

	opts := DefaultV2VOptions()
	opts.E2VAggr = AggrMean
	y, err := h.V2V(vertexFeatures(), AggrSum, 0, opts)
	require.NoError(t, err)

	// V2E stays sum (with the weight update); E2V divides by vertex degrees.
	requireDenseEqual(t, [][]float64{
		{2, 2},
		{8.0 / 3, 2},
		{8.0 / 3, 2},
		{3, 2},
	}, y)
}

func TestV2V_InheritsDropRate(t *testing.T) {
	h, err := New(4,
		WithEdgeList([][]int{{0, 1, 2}, {1, 2, 3}}),
		WithSeed(7),
	)
	require.NoError(t, err)

	opts := DefaultV2VOptions()
	require.True(t, math.IsNaN(opts.V2EDropRate))
	require.True(t, math.IsNaN(opts.E2VDropRate))

	y, err := h.V2V(vertexFeatures(), AggrSum, 1, opts)
	require.NoError(t, err)
	requireDenseEqual(t, [][]float64{
		{0, 0},
		{0, 0},
		{0, 0},
		{0, 0},
	}, y)
}

func TestSmoothing(t *testing.T) {
	h := newTestGraph(t)
	x := vertexFeatures()

	// With the identity as Laplacian, smoothing scales by (1 + λ).
	l := h.WV() // diag(1,1,1,1)
	y, err := h.Smoothing(x, l, 0.5)
	require.NoError(t, err)
	requireDenseEqual(t, [][]float64{
		{1.5, 0},
		{0, 1.5},
		{1.5, 1.5},
		{3, 0},
	}, y)

	_, err = h.Smoothing(mat.NewDense(3, 2, nil), l, 0.5)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

package builder

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/hyperlath/hypergraph"
)

// FromFeatureKNN builds a k-uniform hypergraph from an N×C feature matrix:
// one vertex per row, one hyperedge per row containing the row itself and
// its k−1 nearest neighbors under Euclidean distance. Ties break on the
// lower row index, so construction is deterministic.
//
// Vertices whose neighborhoods coincide produce the same hyperedge code;
// those entries merge under the mean merge rule, which also averages their
// derived weights.
//
// Complexity: O(N²·C) for the distance computation plus O(N²·log N) for
// neighbor selection.
func FromFeatureKNN(x *mat.Dense, k int, opts ...BuildOption) (*hypergraph.Hypergraph, error) {
	n, c := x.Dims()
	if n == 0 || c == 0 {
		return nil, ErrEmptyFeatures
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: k=%d with %d rows", ErrBadNeighborCount, k, n)
	}

	cfg := buildConfig{scheme: WeightNone, alpha: defaultAlpha}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.scheme.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedWeighting, cfg.scheme)
	}

	dist := pairwiseDistances(x)
	edges := neighborhoods(dist, k)

	weights := hypergraph.NoWeights()
	switch cfg.scheme {
	case WeightMAD:
		weights = hypergraph.PerEdge(madWeights(x, edges, cfg.alpha))
	case WeightEuclidean:
		weights = hypergraph.PerEdge(euclideanWeights(dist, edges))
	}

	h, err := hypergraph.New(n, hypergraph.WithUniformEdgeSize(k))
	if err != nil {
		return nil, err
	}
	if err = h.AddHyperedges(edges, weights, hypergraph.MergeMean, cfg.group); err != nil {
		return nil, err
	}

	return h, nil
}

// pairwiseDistances computes the full N×N Euclidean distance matrix.
func pairwiseDistances(x *mat.Dense) *mat.Dense {
	n, _ := x.Dims()
	dist := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := floats.Distance(x.RawRowView(i), x.RawRowView(j), 2)
			dist.Set(i, j, d)
			dist.Set(j, i, d)
		}
	}

	return dist
}

// neighborhoods selects, for each row, the k nearest rows (itself included
// at distance zero) sorted by distance then index.
func neighborhoods(dist *mat.Dense, k int) [][]int {
	n, _ := dist.Dims()
	edges := make([][]int, n)
	idx := make([]int, n)
	for i := 0; i < n; i++ {
		for j := range idx {
			idx[j] = j
		}
		row := dist.RawRowView(i)
		sort.SliceStable(idx, func(a, b int) bool { return row[idx[a]] < row[idx[b]] })
		edges[i] = append([]int(nil), idx[:k]...)
	}

	return edges
}

// madWeights scores each neighborhood by how tightly its members agree per
// feature column: w = mean over columns of exp(−α·MAD), where MAD is the
// median absolute deviation from the column median.
func madWeights(x *mat.Dense, edges [][]int, alpha float64) []float64 {
	_, c := x.Dims()
	out := make([]float64, len(edges))
	col := make([]float64, 0, 8)
	for ei, edge := range edges {
		sum := 0.0
		for j := 0; j < c; j++ {
			col = col[:0]
			for _, v := range edge {
				col = append(col, x.At(v, j))
			}
			m := median(col)
			for i, v := range col {
				col[i] = math.Abs(v - m)
			}
			sum += math.Exp(-alpha * median(col))
		}
		out[ei] = sum / float64(c)
	}

	return out
}

// euclideanWeights scores each neighborhood by its pairwise member
// distances relative to the global scale σ, the median entry of the full
// distance matrix: w = mean over the k×k member pairs of exp(−d²/σ²).
// Self-pairs contribute exp(0), matching the full-matrix mean the scoring
// is defined over.
func euclideanWeights(dist *mat.Dense, edges [][]int) []float64 {
	n, _ := dist.Dims()
	flat := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		flat = append(flat, dist.RawRowView(i)...)
	}
	sigma := median(flat)
	sigma2 := sigma * sigma

	out := make([]float64, len(edges))
	for ei, edge := range edges {
		sum := 0.0
		for _, a := range edge {
			for _, b := range edge {
				d := dist.At(a, b)
				if sigma2 == 0 {
					// Degenerate feature set: all points coincide.
					sum++
					continue
				}
				sum += math.Exp(-(d * d) / sigma2)
			}
		}
		out[ei] = sum / float64(len(edge)*len(edge))
	}

	return out
}

// median returns the midpoint-interpolated median. The input is sorted in
// place.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}

	return (vals[n/2-1] + vals[n/2]) / 2
}

// Package builder constructs hypergraphs from dense feature matrices.
//
// The central routine is FromFeatureKNN: every row of an N×C feature matrix
// becomes a vertex, and each vertex spawns one hyperedge containing itself
// and its k−1 nearest neighbors under Euclidean distance. The result is a
// k-uniform hypergraph with at most N hyperedges (identical neighborhoods
// merge into one entry).
//
// ✨ Weighting schemes
//
//   - WeightNone: every hyperedge gets weight 1.
//   - WeightMAD: mean(exp(−α·MAD)) over the feature columns of the edge's
//     members, where MAD is the per-column median absolute deviation.
//     Tighter neighborhoods get larger weights.
//   - WeightEuclidean: mean(exp(−d²/σ²)) over the pairwise member distances,
//     with σ the median pairwise distance of the whole feature set.
//
// ⚙️ Usage
//
//	hg, err := builder.FromFeatureKNN(x, 5,
//	    builder.WithWeighting(builder.WeightMAD),
//	    builder.WithAlpha(0.5),
//	)
package builder

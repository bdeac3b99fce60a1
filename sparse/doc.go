// Package sparse implements a compact coordinate (COO) sparse matrix used
// as the propagation substrate for hypergraph message passing.
//
// 🚀 What does sparse provide?
//
//	A small, allocation-conscious matrix type tuned for the access patterns
//	of incidence-structure algebra:
//	  • construction from coordinate triplets, with bounds validation
//	  • diagonal constructors for weight / degree matrices
//	  • transpose and value substitution on a fixed sparsity pattern
//	  • sparse × dense products into gonum mat.Dense feature matrices
//	  • row sums, row-wise softmax over stored entries
//	  • Bernoulli dropout of stored entries (structural regularization)
//
// ✨ Design notes:
//
//   - The sparsity pattern is immutable after construction; operations that
//     "change" values (WithValues, Dropout, RowSoftmax) return a new matrix
//     with its own value storage, so cached matrices stay intact.
//   - Dropped entries become explicit zeros: shape and pattern are
//     preserved, which keeps value-substitution paths aligned entry-for-entry.
//   - Inverse helpers follow the 0⁻¹ = 0 convention so degree-zero rows stay
//     neutral in subsequent products instead of propagating Inf/NaN.
//
// Performance: products run in O(nnz·C) for C feature channels; every other
// operation is O(nnz) or better.
package sparse

// Package hyperlath is an in-memory engine for weighted hypergraphs —
// vertices grouped into multi-vertex hyperedges — built as the sparse
// computational substrate for graph-based learning pipelines.
//
// 🚀 What is hyperlath?
//
//	A library that brings together:
//		• Hyperedge groups: named, independently-weighted edge collections
//		  over one vertex set, with merge-on-conflict semantics
//		• Derived matrices: incidence (H, Hᵗ), weight (W_v, W_e) and degree
//		  (D_v, D_e and their inverse forms) matrices, materialized lazily
//		  and cached per group with epoch-based invalidation
//		• Message passing: vertex→hyperedge, hyperedge→vertex and
//		  vertex→vertex operators with mean / sum / softmax-then-sum
//		  aggregation and stochastic incidence dropout
//		• Construction: k-nearest-neighbor hyperedges from a dense feature
//		  matrix, with MAD or Euclidean edge weighting
//
// ✨ Why choose hyperlath?
//
//   - Predictable invariants – sorted hyperedge codes, insertion-order
//     enumeration, all-or-nothing mutations
//   - Cache you can trust – every mutation bumps an epoch; stale matrices
//     are never served
//   - Numeric backbone – dense tensors are gonum mat.Dense; sparse products
//     run over a compact coordinate format
//
// Everything is organized under three packages:
//
//	sparse/     — coordinate sparse matrices: products, softmax, dropout
//	hypergraph/ — the hypergraph structure, caches and message passing
//	builder/    — hypergraph construction from feature matrices
//
// Quick ASCII example:
//
//	    e0 = {0,1,2}   e1 = {1,2,3}
//
//	    0───e0───1
//	             │
//	    3───e1───2
//
//	two hyperedges sharing vertices 1 and 2 over a four-vertex set.
//
// Dive into the package docs and example tests for full walkthroughs.
//
//	go get github.com/katalvlaran/hyperlath
package hyperlath

// Package hypergraph implements a weighted hypergraph — vertices grouped
// into multi-vertex hyperedges — with cacheable sparse-matrix derivations
// and message-passing operators for graph-based learning.
//
// 🚀 What is a hypergraph here?
//
//	A fixed vertex set [0, NumV) plus named hyperedge groups. Every
//	hyperedge is identified by its sorted member tuple (its code); adding a
//	duplicate code merges weights (mean / sum / max) instead of creating a
//	second entry. From the raw groups the structure derives, lazily and with
//	epoch-versioned caching:
//	  • incidence matrices H / Hᵗ and weighted variants R_v2e / R_e2v
//	  • diagonal weight matrices W_v, W_e
//	  • diagonal degree matrices D_v, D_e and their D⁻¹ / D^{-1/2} forms
//	    (degree-zero entries clamp to zero, never Inf)
//
// ✨ Message passing:
//
//   - V2E — vertices to hyperedges: aggregation over Hᵗ (mean, sum or
//     softmax-then-sum, with optional Bernoulli dropout of incidence
//     entries) followed by a per-hyperedge weight rescale
//   - E2V — hyperedges to vertices: the symmetric operator over H; its
//     update step is an intentional identity pass-through
//   - V2V — the round trip E2V ∘ V2E with per-stage overrides
//
// ⚙️ Concurrency contract: one Hypergraph is mutable shared state. Mutations
// (AddHyperedges, RemoveHyperedges, SetVertexWeights, To) must be serialized
// externally. Concurrent read-only aggregation is safe: lazy cache
// population is guarded by an internal mutex.
//
// Persistence: Save/Load round-trips NumV, vertex weights and the raw
// groups (codes, weights, insertion order) through a CRC-checked binary
// frame; caches are rebuilt lazily after a load.
package hypergraph

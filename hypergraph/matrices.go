package hypergraph

import (
	"fmt"

	"github.com/katalvlaran/hyperlath/sparse"
)

// Cache entry names. Scope "" holds the structure-wide (cross-group)
// variants; every group holds its own copies under the same names.
const (
	matH       = "H"
	matHT      = "H_T"
	matRV2E    = "R_v2e"
	matRE2V    = "R_e2v"
	matWE      = "W_e"
	matWV      = "W_v"
	matDV      = "D_v"
	matDVNeg1  = "D_v_neg_1"
	matDVNeg12 = "D_v_neg_1_2"
	matDE      = "D_e"
	matDENeg1  = "D_e_neg_1"
)

// incidenceOfGroup builds the vertices×hyperedges incidence of one group:
// hyperedge index = position in the group's insertion-order enumeration.
// With weighted=false every stored entry is 1.0; with weighted=true the
// per-connection weight of the requested direction is used, falling back to
// 1.0 for edges that carry none.
func (h *Hypergraph) incidenceOfGroup(g *edgeGroup, weighted, e2v bool) *sparse.COO {
	var rows, cols []int
	var vals []float64
	for eIdx, code := range g.order {
		e := g.edges[code]
		w := e.wV2E
		if e2v {
			w = e.wE2V
		}
		for i, v := range e.members {
			rows = append(rows, v)
			cols = append(cols, eIdx)
			switch {
			case weighted && w != nil:
				vals = append(vals, w[i])
			default:
				vals = append(vals, 1.0)
			}
		}
	}

	// Raw state was validated on insertion; construction cannot fail.
	m, _ := sparse.New(h.numV, len(g.order), rows, cols, vals)

	return m
}

func (h *Hypergraph) mustGroup(group string) (*edgeGroup, error) {
	g, ok := h.groups[group]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}

	return g, nil
}

// concatGroups builds a structure-wide matrix by concatenating the
// per-group variant along the hyperedge axis, in group insertion order.
func (h *Hypergraph) concatGroups(perGroup func(*edgeGroup) *sparse.COO) *sparse.COO {
	mats := make([]*sparse.COO, 0, len(h.groupOrder))
	for _, name := range h.groupOrder {
		mats = append(mats, perGroup(h.groups[name]))
	}
	m, _ := sparse.ConcatCols(h.numV, mats...)

	return m
}

// H returns the structure-wide incidence matrix (vertices × hyperedges,
// 1.0 where the vertex is a member), concatenated over groups in insertion
// order.
func (h *Hypergraph) H() *sparse.COO {
	return h.cache.cached("", matH, func() *sparse.COO {
		return h.concatGroups(func(g *edgeGroup) *sparse.COO {
			return h.incidenceOfGroup(g, false, false)
		})
	})
}

// HOfGroup returns the incidence matrix of one group.
func (h *Hypergraph) HOfGroup(group string) (*sparse.COO, error) {
	g, err := h.mustGroup(group)
	if err != nil {
		return nil, err
	}

	return h.cache.cached(group, matH, func() *sparse.COO {
		return h.incidenceOfGroup(g, false, false)
	}), nil
}

// HT returns the transpose of the structure-wide incidence matrix.
func (h *Hypergraph) HT() *sparse.COO {
	return h.cache.cached("", matHT, func() *sparse.COO {
		return h.H().T()
	})
}

// HTOfGroup returns the transposed incidence matrix of one group.
func (h *Hypergraph) HTOfGroup(group string) (*sparse.COO, error) {
	if _, err := h.mustGroup(group); err != nil {
		return nil, err
	}

	return h.cache.cached(group, matHT, func() *sparse.COO {
		m, _ := h.HOfGroup(group)

		return m.T()
	}), nil
}

// RV2E returns the weighted connection matrix for the vertex→hyperedge
// direction: the incidence pattern with per-connection v2e weights as
// values (1.0 where an edge carries none).
func (h *Hypergraph) RV2E() *sparse.COO {
	return h.cache.cached("", matRV2E, func() *sparse.COO {
		return h.concatGroups(func(g *edgeGroup) *sparse.COO {
			return h.incidenceOfGroup(g, true, false)
		})
	})
}

// RV2EOfGroup returns the weighted v2e connection matrix of one group.
func (h *Hypergraph) RV2EOfGroup(group string) (*sparse.COO, error) {
	g, err := h.mustGroup(group)
	if err != nil {
		return nil, err
	}

	return h.cache.cached(group, matRV2E, func() *sparse.COO {
		return h.incidenceOfGroup(g, true, false)
	}), nil
}

// RE2V returns the weighted connection matrix for the hyperedge→vertex
// direction.
func (h *Hypergraph) RE2V() *sparse.COO {
	return h.cache.cached("", matRE2V, func() *sparse.COO {
		return h.concatGroups(func(g *edgeGroup) *sparse.COO {
			return h.incidenceOfGroup(g, true, true)
		})
	})
}

// RE2VOfGroup returns the weighted e2v connection matrix of one group.
func (h *Hypergraph) RE2VOfGroup(group string) (*sparse.COO, error) {
	g, err := h.mustGroup(group)
	if err != nil {
		return nil, err
	}

	return h.cache.cached(group, matRE2V, func() *sparse.COO {
		return h.incidenceOfGroup(g, true, true)
	}), nil
}

// weightsOfGroup collects the group's hyperedge weights in insertion order.
func weightsOfGroup(g *edgeGroup) []float64 {
	out := make([]float64, len(g.order))
	for i, code := range g.order {
		out[i] = g.edges[code].wE
	}

	return out
}

// WE returns the diagonal hyperedge weight matrix, concatenated over groups
// in insertion order.
func (h *Hypergraph) WE() *sparse.COO {
	return h.cache.cached("", matWE, func() *sparse.COO {
		var all []float64
		for _, name := range h.groupOrder {
			all = append(all, weightsOfGroup(h.groups[name])...)
		}

		return sparse.Diag(all)
	})
}

// WEOfGroup returns the diagonal hyperedge weight matrix of one group.
func (h *Hypergraph) WEOfGroup(group string) (*sparse.COO, error) {
	g, err := h.mustGroup(group)
	if err != nil {
		return nil, err
	}

	return h.cache.cached(group, matWE, func() *sparse.COO {
		return sparse.Diag(weightsOfGroup(g))
	}), nil
}

// WV returns the diagonal vertex weight matrix.
func (h *Hypergraph) WV() *sparse.COO {
	return h.cache.cached("", matWV, func() *sparse.COO {
		return sparse.Diag(h.vWeight)
	})
}

// dvVectorOfGroup computes the group's weighted vertex degree vector: for
// each vertex the sum over incident edges of edge weight × incidence value.
func (h *Hypergraph) dvVectorOfGroup(g *edgeGroup) []float64 {
	deg := make([]float64, h.numV)
	for _, code := range g.order {
		e := g.edges[code]
		for _, v := range e.members {
			deg[v] += e.wE
		}
	}

	return deg
}

// DV returns the diagonal vertex degree matrix: per-group degree vectors
// summed across groups.
func (h *Hypergraph) DV() *sparse.COO {
	return h.cache.cached("", matDV, func() *sparse.COO {
		deg := make([]float64, h.numV)
		for _, name := range h.groupOrder {
			for v, d := range h.dvVectorOfGroup(h.groups[name]) {
				deg[v] += d
			}
		}

		return sparse.Diag(deg)
	})
}

// DVOfGroup returns the diagonal vertex degree matrix of one group.
func (h *Hypergraph) DVOfGroup(group string) (*sparse.COO, error) {
	g, err := h.mustGroup(group)
	if err != nil {
		return nil, err
	}

	return h.cache.cached(group, matDV, func() *sparse.COO {
		return sparse.Diag(h.dvVectorOfGroup(g))
	}), nil
}

// DVNeg1 returns D_v⁻¹ with degree-zero entries clamped to zero.
func (h *Hypergraph) DVNeg1() *sparse.COO {
	return h.cache.cached("", matDVNeg1, func() *sparse.COO {
		return sparse.Diag(sparse.InvVector(h.DV().Values()))
	})
}

// DVNeg1OfGroup returns the group variant of D_v⁻¹.
func (h *Hypergraph) DVNeg1OfGroup(group string) (*sparse.COO, error) {
	if _, err := h.mustGroup(group); err != nil {
		return nil, err
	}

	return h.cache.cached(group, matDVNeg1, func() *sparse.COO {
		m, _ := h.DVOfGroup(group)

		return sparse.Diag(sparse.InvVector(m.Values()))
	}), nil
}

// DVNeg12 returns D_v^{-1/2} with degree-zero entries clamped to zero.
func (h *Hypergraph) DVNeg12() *sparse.COO {
	return h.cache.cached("", matDVNeg12, func() *sparse.COO {
		return sparse.Diag(sparse.InvSqrtVector(h.DV().Values()))
	})
}

// DVNeg12OfGroup returns the group variant of D_v^{-1/2}.
func (h *Hypergraph) DVNeg12OfGroup(group string) (*sparse.COO, error) {
	if _, err := h.mustGroup(group); err != nil {
		return nil, err
	}

	return h.cache.cached(group, matDVNeg12, func() *sparse.COO {
		m, _ := h.DVOfGroup(group)

		return sparse.Diag(sparse.InvSqrtVector(m.Values()))
	}), nil
}

// deVectorOfGroup computes the group's hyperedge degree vector: the member
// count of each hyperedge (row sums of the transposed incidence).
func deVectorOfGroup(g *edgeGroup) []float64 {
	out := make([]float64, len(g.order))
	for i, code := range g.order {
		out[i] = float64(len(g.edges[code].members))
	}

	return out
}

// DE returns the diagonal hyperedge degree matrix: per-group degree
// vectors concatenated in group insertion order.
func (h *Hypergraph) DE() *sparse.COO {
	return h.cache.cached("", matDE, func() *sparse.COO {
		var all []float64
		for _, name := range h.groupOrder {
			all = append(all, deVectorOfGroup(h.groups[name])...)
		}

		return sparse.Diag(all)
	})
}

// DEOfGroup returns the diagonal hyperedge degree matrix of one group.
func (h *Hypergraph) DEOfGroup(group string) (*sparse.COO, error) {
	g, err := h.mustGroup(group)
	if err != nil {
		return nil, err
	}

	return h.cache.cached(group, matDE, func() *sparse.COO {
		return sparse.Diag(deVectorOfGroup(g))
	}), nil
}

// DENeg1 returns D_e⁻¹ with degree-zero entries clamped to zero.
func (h *Hypergraph) DENeg1() *sparse.COO {
	return h.cache.cached("", matDENeg1, func() *sparse.COO {
		return sparse.Diag(sparse.InvVector(h.DE().Values()))
	})
}

// DENeg1OfGroup returns the group variant of D_e⁻¹.
func (h *Hypergraph) DENeg1OfGroup(group string) (*sparse.COO, error) {
	if _, err := h.mustGroup(group); err != nil {
		return nil, err
	}

	return h.cache.cached(group, matDENeg1, func() *sparse.COO {
		m, _ := h.DEOfGroup(group)

		return sparse.Diag(sparse.InvVector(m.Values()))
	}), nil
}

// V2ESrc returns the source vertex index of every v2e connection, in the
// storage order of Hᵗ.
func (h *Hypergraph) V2ESrc() []int { return h.HT().ColIndices() }

// V2EDst returns the destination hyperedge index of every v2e connection.
func (h *Hypergraph) V2EDst() []int { return h.HT().RowIndices() }

// V2EWeight returns the weight of every v2e connection.
func (h *Hypergraph) V2EWeight() []float64 { return h.HT().Values() }

// E2VSrc returns the source hyperedge index of every e2v connection, in the
// storage order of H.
func (h *Hypergraph) E2VSrc() []int { return h.H().ColIndices() }

// E2VDst returns the destination vertex index of every e2v connection.
func (h *Hypergraph) E2VDst() []int { return h.H().RowIndices() }

// E2VWeight returns the weight of every e2v connection.
func (h *Hypergraph) E2VWeight() []float64 { return h.H().Values() }

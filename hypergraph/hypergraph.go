package hypergraph

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Hypergraph owns a fixed vertex set [0, numV), a per-vertex weight vector,
// and named hyperedge groups, together with the epoch-versioned caches of
// every matrix derived from them.
//
// Mutations must be serialized externally; concurrent read-only use is safe
// because lazy cache population is mutex-guarded (see cache.go).
type Hypergraph struct {
	numV     int
	vWeight  []float64
	uniformK int // 0 = hyperedges of any size; k > 0 = k-uniform constraint

	groups     map[string]*edgeGroup
	groupOrder []string // group insertion order, fixes global concatenation

	cache  *matrixCache
	device Device

	src rand.Source // dropout stream, deterministic per WithSeed
}

// New creates a hypergraph with numV vertices and applies the options,
// including an optional initial edge batch added to DefaultGroup.
// A non-positive vertex count or an out-of-range vertex weight vector fails
// construction.
//
// Complexity: O(numV) plus the cost of the initial AddHyperedges batch.
func New(numV int, opts ...Option) (*Hypergraph, error) {
	if numV <= 0 {
		return nil, fmt.Errorf("%w: num_v must be positive, got %d", ErrInvalidConstruction, numV)
	}

	cfg := config{
		eWeights: NoWeights(),
		mergeOp:  MergeMean,
		device:   DeviceCPU,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.uniformK < 0 {
		return nil, fmt.Errorf("%w: uniform edge size must be non-negative", ErrInvalidConstruction)
	}

	h := &Hypergraph{
		numV:     numV,
		vWeight:  make([]float64, numV),
		uniformK: cfg.uniformK,
		groups:   make(map[string]*edgeGroup),
		cache:    newMatrixCache(),
		device:   cfg.device,
		src:      newSource(cfg.seed),
	}
	for i := range h.vWeight {
		h.vWeight[i] = 1.0
	}
	if cfg.vWeights != nil {
		if len(cfg.vWeights) != numV {
			return nil, ErrShapeMismatch
		}
		copy(h.vWeight, cfg.vWeights)
	}

	if cfg.edges != nil {
		if err := h.AddHyperedges(cfg.edges, cfg.eWeights, cfg.mergeOp, DefaultGroup); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// String reports the structure's headline shape.
func (h *Hypergraph) String() string {
	return fmt.Sprintf("Hypergraph(num_v=%d, num_e=%d)", h.numV, h.NumE())
}

// NumV returns the number of vertices, fixed at construction.
func (h *Hypergraph) NumV() int { return h.numV }

// NumE returns the total number of hyperedges across all groups.
func (h *Hypergraph) NumE() int {
	total := 0
	for _, g := range h.groups {
		total += len(g.order)
	}

	return total
}

// NumEOfGroup returns the hyperedge count of one group.
func (h *Hypergraph) NumEOfGroup(group string) (int, error) {
	g, ok := h.groups[group]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}

	return len(g.order), nil
}

// NumGroups returns the number of hyperedge groups.
func (h *Hypergraph) NumGroups() int { return len(h.groups) }

// GroupNames returns group names in insertion order (the order global
// matrices concatenate in). The slice is a copy.
func (h *Hypergraph) GroupNames() []string {
	return append([]string(nil), h.groupOrder...)
}

// V returns the vertex index list [0, numV).
func (h *Hypergraph) V() []int {
	out := make([]int, h.numV)
	for i := range out {
		out[i] = i
	}

	return out
}

// VertexWeights returns a copy of the per-vertex weight vector.
func (h *Hypergraph) VertexWeights() []float64 {
	return append([]float64(nil), h.vWeight...)
}

// SetVertexWeights replaces the full per-vertex weight vector and
// invalidates every cache entry deriving from it. The length must equal
// NumV or the call fails with ErrShapeMismatch and no state changes.
func (h *Hypergraph) SetVertexWeights(w []float64) error {
	if len(w) != h.numV {
		return ErrShapeMismatch
	}
	copy(h.vWeight, w)
	h.bumpGlobalEpoch()

	return nil
}

// E returns all hyperedges (sorted member tuples) and their weights,
// concatenated over groups in insertion order. Both slices are copies.
func (h *Hypergraph) E() (edges [][]int, weights []float64) {
	for _, name := range h.groupOrder {
		ge, gw := h.eOfGroup(h.groups[name])
		edges = append(edges, ge...)
		weights = append(weights, gw...)
	}

	return edges, weights
}

// EOfGroup returns the hyperedges and weights of one group, in insertion
// order.
func (h *Hypergraph) EOfGroup(group string) (edges [][]int, weights []float64, err error) {
	g, ok := h.groups[group]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	edges, weights = h.eOfGroup(g)

	return edges, weights, nil
}

func (h *Hypergraph) eOfGroup(g *edgeGroup) ([][]int, []float64) {
	edges := make([][]int, 0, len(g.order))
	weights := make([]float64, 0, len(g.order))
	for _, code := range g.order {
		e := g.edges[code]
		edges = append(edges, append([]int(nil), e.members...))
		weights = append(weights, e.wE)
	}

	return edges, weights
}

// DegV returns the weighted vertex degree vector: for each vertex the sum
// over incident hyperedges of edge weight × incidence value.
func (h *Hypergraph) DegV() []float64 {
	return h.DV().Values()
}

// DegE returns the hyperedge degree vector: the (weighted) member count of
// each hyperedge, in global index order.
func (h *Hypergraph) DegE() []float64 {
	return h.DE().Values()
}

// NbrE returns the global hyperedge indices incident to vertex v.
func (h *Hypergraph) NbrE(v int) ([]int, error) {
	if v < 0 || v >= h.numV {
		return nil, fmt.Errorf("%w: vertex %d", ErrIndexOutOfRange, v)
	}

	var out []int
	base := 0
	for _, name := range h.groupOrder {
		g := h.groups[name]
		for i, code := range g.order {
			for _, m := range g.edges[code].members {
				if m == v {
					out = append(out, base+i)
					break
				}
			}
		}
		base += len(g.order)
	}

	return out, nil
}

// NbrV returns the member vertices of the hyperedge with global index e.
func (h *Hypergraph) NbrV(e int) ([]int, error) {
	if e < 0 || e >= h.NumE() {
		return nil, fmt.Errorf("%w: hyperedge %d", ErrIndexOutOfRange, e)
	}

	for _, name := range h.groupOrder {
		g := h.groups[name]
		if e < len(g.order) {
			return append([]int(nil), g.edges[g.order[e]].members...), nil
		}
		e -= len(g.order)
	}

	// Unreachable: e was bounds-checked against NumE above.
	return nil, ErrIndexOutOfRange
}

// Clone returns a deep copy of the raw structure (groups, vertex weights,
// device binding). Caches start cold and are rebuilt lazily.
func (h *Hypergraph) Clone() *Hypergraph {
	out := &Hypergraph{
		numV:       h.numV,
		vWeight:    append([]float64(nil), h.vWeight...),
		uniformK:   h.uniformK,
		groups:     make(map[string]*edgeGroup, len(h.groups)),
		groupOrder: append([]string(nil), h.groupOrder...),
		cache:      newMatrixCache(),
		device:     h.device,
		src:        newSource(defaultSeed),
	}
	for name, g := range h.groups {
		out.groups[name] = g.clone()
	}

	return out
}

// Device returns the compute location the structure is currently bound to.
func (h *Hypergraph) Device() Device { return h.device }

// To relocates the structure's cached matrices to the given device and
// returns the receiver. Relocation is a mutation under the same external
// serialization rule as edge mutations; once bound, aggregation calls at
// the same location pay no relocation cost. With the single host backend of
// this implementation the walk re-binds cache entries without copying.
func (h *Hypergraph) To(d Device) *Hypergraph {
	if h.device == d {
		return h
	}
	h.device = d
	h.cache.rebind()

	return h
}

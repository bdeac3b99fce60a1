package hypergraph

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// hyperedge is the stored content of one hyperedge: its sorted members,
// scalar weight and optional per-connection weight vectors aligned with the
// sorted member order.
type hyperedge struct {
	members []int
	wE      float64
	wV2E    []float64 // nil when the edge carries no v2e connection weights
	wE2V    []float64
}

func (e *hyperedge) clone() *hyperedge {
	return &hyperedge{
		members: append([]int(nil), e.members...),
		wE:      e.wE,
		wV2E:    append([]float64(nil), e.wV2E...),
		wE2V:    append([]float64(nil), e.wE2V...),
	}
}

// edgeGroup is a named partition of the hyperedge set. Codes are enumerated
// in insertion order, which fixes the hyperedge index assignment of every
// derived matrix.
type edgeGroup struct {
	order []string
	edges map[string]*hyperedge
}

func newEdgeGroup() *edgeGroup {
	return &edgeGroup{edges: make(map[string]*hyperedge)}
}

func (g *edgeGroup) clone() *edgeGroup {
	out := &edgeGroup{
		order: append([]string(nil), g.order...),
		edges: make(map[string]*hyperedge, len(g.edges)),
	}
	for code, e := range g.edges {
		out.edges[code] = e.clone()
	}

	return out
}

// edgeCode canonicalizes a member set into the map key identifying the
// hyperedge: its sorted vertex tuple.
func edgeCode(sorted []int) string {
	var b strings.Builder
	for i, v := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}

	return b.String()
}

// canonicalEdge returns sorted members plus the permutation applied, so
// connection-weight vectors can be reordered alongside.
func canonicalEdge(members []int) (sorted []int, perm []int) {
	perm = make([]int, len(members))
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(a, b int) bool { return members[perm[a]] < members[perm[b]] })

	sorted = make([]int, len(members))
	for i, p := range perm {
		sorted[i] = members[p]
	}

	return sorted, perm
}

// validateEdges checks every member index against [0, numV), the edge-size
// constraint, and that no edge is empty.
func (h *Hypergraph) validateEdges(edges [][]int) error {
	for _, e := range edges {
		if len(e) == 0 {
			return ErrInvalidConstruction
		}
		if h.uniformK > 0 && len(e) != h.uniformK {
			return ErrInvalidConstruction
		}
		for _, v := range e {
			if v < 0 || v >= h.numV {
				return ErrInvalidConstruction
			}
		}
	}

	return nil
}

// mergeInto merges incoming content into an existing entry under op,
// elementwise over the edge weight and any connection-weight vectors both
// sides carry.
func mergeInto(dst, src *hyperedge, op MergeOp) {
	dst.wE = op.apply(dst.wE, src.wE)
	if dst.wV2E != nil && src.wV2E != nil {
		for i := range dst.wV2E {
			dst.wV2E[i] = op.apply(dst.wV2E[i], src.wV2E[i])
		}
	}
	if dst.wE2V != nil && src.wE2V != nil {
		for i := range dst.wE2V {
			dst.wE2V[i] = op.apply(dst.wE2V[i], src.wE2V[i])
		}
	}
}

// AddHyperedges adds a batch of hyperedges to the named group, creating the
// group on first use. Each edge is canonicalized by sorting its members;
// adding a code already present in the group merges weights under merge
// instead of creating a second entry.
//
// The batch is all-or-nothing: every edge and weight is validated before
// the store is touched, so a failed call leaves raw state and caches
// unchanged. On success the group's cache epoch and the global epoch are
// bumped.
//
// Complexity: O(Σ|e|·log|e|) for canonicalization plus O(batch) merging.
func (h *Hypergraph) AddHyperedges(edges [][]int, weights EdgeWeights, merge MergeOp, group string) error {
	return h.addBatch(edges, nil, nil, weights, merge, group)
}

// AddHyperedgesWithConnections is the directional variant: wV2E and wE2V
// carry one weight per member vertex of each edge (the vectors are
// reordered along with the member sort). Either slice may be nil to omit
// that direction. Length disagreements fail with ErrShapeMismatch.
func (h *Hypergraph) AddHyperedgesWithConnections(
	edges [][]int,
	wV2E, wE2V [][]float64,
	weights EdgeWeights,
	merge MergeOp,
	group string,
) error {
	return h.addBatch(edges, wV2E, wE2V, weights, merge, group)
}

func (h *Hypergraph) addBatch(
	edges [][]int,
	wV2E, wE2V [][]float64,
	weights EdgeWeights,
	merge MergeOp,
	group string,
) error {
	timer := time.Now()
	err := h.addBatchLocked(edges, wV2E, wE2V, weights, merge, group)
	observeMutation(opAddHyperedge, err, timer)

	return err
}

func (h *Hypergraph) addBatchLocked(
	edges [][]int,
	wV2E, wE2V [][]float64,
	weights EdgeWeights,
	merge MergeOp,
	group string,
) error {
	if group == "" {
		group = DefaultGroup
	}
	if !merge.valid() {
		return ErrUnsupportedMergeOp
	}
	if err := h.validateEdges(edges); err != nil {
		return err
	}
	if wV2E != nil && len(wV2E) != len(edges) {
		return ErrShapeMismatch
	}
	if wE2V != nil && len(wE2V) != len(edges) {
		return ErrShapeMismatch
	}
	for i := range edges {
		if wV2E != nil && len(wV2E[i]) != len(edges[i]) {
			return ErrShapeMismatch
		}
		if wE2V != nil && len(wE2V[i]) != len(edges[i]) {
			return ErrShapeMismatch
		}
	}
	wE, err := weights.resolve(len(edges))
	if err != nil {
		return err
	}

	// Validation is complete; from here the whole batch applies.
	g, ok := h.groups[group]
	if !ok {
		g = newEdgeGroup()
		h.groups[group] = g
		h.groupOrder = append(h.groupOrder, group)
	}

	for i, members := range edges {
		sorted, perm := canonicalEdge(members)
		content := &hyperedge{members: sorted, wE: wE[i]}
		if wV2E != nil {
			content.wV2E = permute(wV2E[i], perm)
		}
		if wE2V != nil {
			content.wE2V = permute(wE2V[i], perm)
		}

		code := edgeCode(sorted)
		if existing, dup := g.edges[code]; dup {
			mergeInto(existing, content, merge)
		} else {
			g.edges[code] = content
			g.order = append(g.order, code)
		}
	}

	h.bumpEpoch(group)

	return nil
}

func permute(vals []float64, perm []int) []float64 {
	out := make([]float64, len(vals))
	for i, p := range perm {
		out[i] = vals[p]
	}

	return out
}

// RemoveHyperedges removes the listed hyperedge codes from the named group,
// or from every group when group is empty. Codes not present are silently
// skipped. A named group that does not exist fails with ErrUnknownGroup.
//
// Complexity: O(batch · num_e_of_group) due to insertion-order compaction.
func (h *Hypergraph) RemoveHyperedges(edges [][]int, group string) error {
	timer := time.Now()
	err := h.removeLocked(edges, group)
	observeMutation(opRemoveHyperedge, err, timer)

	return err
}

func (h *Hypergraph) removeLocked(edges [][]int, group string) error {
	targets := h.groupOrder
	if group != "" {
		if _, ok := h.groups[group]; !ok {
			return ErrUnknownGroup
		}
		targets = []string{group}
	}

	codes := make([]string, len(edges))
	for i, members := range edges {
		sorted, _ := canonicalEdge(members)
		codes[i] = edgeCode(sorted)
	}

	for _, name := range targets {
		g := h.groups[name]
		touched := false
		for _, code := range codes {
			if _, ok := g.edges[code]; !ok {
				continue
			}
			delete(g.edges, code)
			touched = true
		}
		if touched {
			g.compactOrder()
			h.bumpEpoch(name)
		}
	}

	return nil
}

// compactOrder drops deleted codes from the insertion-order slice.
func (g *edgeGroup) compactOrder() {
	kept := g.order[:0]
	for _, code := range g.order {
		if _, ok := g.edges[code]; ok {
			kept = append(kept, code)
		}
	}
	g.order = kept
}

package hypergraph

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
)

// Sentinel errors for hypergraph operations.
var (
	// ErrInvalidConstruction indicates a non-positive vertex count or a
	// vertex index outside [0, NumV) in a supplied hyperedge.
	ErrInvalidConstruction = errors.New("hypergraph: invalid construction")

	// ErrShapeMismatch indicates a weight or connection-weight list whose
	// length disagrees with the corresponding edge list, vertex count,
	// hyperedge count or incidence entry count.
	ErrShapeMismatch = errors.New("hypergraph: shape mismatch")

	// ErrUnknownGroup indicates an operation referencing a hyperedge group
	// that is not present in the structure.
	ErrUnknownGroup = errors.New("hypergraph: unknown hyperedge group")

	// ErrUnsupportedAggregation indicates an aggregation method outside the
	// supported set (mean, sum, softmax_then_sum).
	ErrUnsupportedAggregation = errors.New("hypergraph: unsupported aggregation method")

	// ErrUnsupportedMergeOp indicates a merge operation outside the
	// supported set (mean, sum, max).
	ErrUnsupportedMergeOp = errors.New("hypergraph: unsupported merge operation")

	// ErrBadFormat indicates serialized data with a foreign format tag,
	// a failed checksum, or missing required fields.
	ErrBadFormat = errors.New("hypergraph: bad serialization format")

	// ErrIndexOutOfRange indicates a vertex or hyperedge index outside the
	// valid range for a neighborhood query.
	ErrIndexOutOfRange = errors.New("hypergraph: index out of range")
)

// DefaultGroup is the implicit hyperedge group used when no group name is
// supplied.
const DefaultGroup = "main"

// AggrMethod selects the neighborhood aggregation semantics of a
// message-passing step.
type AggrMethod string

const (
	// AggrMean averages incident feature rows; rows with zero remaining
	// connections map to the zero vector.
	AggrMean AggrMethod = "mean"

	// AggrSum sums incident feature rows without normalization.
	AggrSum AggrMethod = "sum"

	// AggrSoftmaxThenSum applies a row-wise softmax over the stored
	// incidence entries before the sparse-dense multiply.
	AggrSoftmaxThenSum AggrMethod = "softmax_then_sum"
)

func (a AggrMethod) valid() bool {
	switch a {
	case AggrMean, AggrSum, AggrSoftmaxThenSum:
		return true
	}

	return false
}

// MergeOp selects how two hyperedges with the same code are merged:
// elementwise over the edge weight and, when present, the per-connection
// weight vectors.
type MergeOp string

const (
	// MergeMean stores the running two-way mean (a+b)/2.
	MergeMean MergeOp = "mean"

	// MergeSum stores a+b.
	MergeSum MergeOp = "sum"

	// MergeMax stores max(a, b).
	MergeMax MergeOp = "max"
)

func (op MergeOp) valid() bool {
	switch op {
	case MergeMean, MergeSum, MergeMax:
		return true
	}

	return false
}

func (op MergeOp) apply(a, b float64) float64 {
	switch op {
	case MergeMean:
		return (a + b) / 2
	case MergeSum:
		return a + b
	default: // MergeMax; validated before use
		return math.Max(a, b)
	}
}

// Device identifies the compute location the structure's cached matrices
// are bound to. The field is owned by each Hypergraph instance, set at
// construction and updated only through To — never through package-level
// state.
type Device string

// DeviceCPU is the host backend, the only location of this implementation.
const DeviceCPU Device = "cpu"

// weightKind tags the three ways a caller can supply hyperedge weights.
type weightKind uint8

const (
	weightsNone weightKind = iota
	weightsUniform
	weightsPerEdge
)

// EdgeWeights is the normalized representation of the "scalar vs. list vs.
// absent" weight argument: resolved exactly once, at the API boundary, into
// a fixed-length vector.
type EdgeWeights struct {
	kind   weightKind
	scalar float64
	vec    []float64
}

// NoWeights means every hyperedge in the batch gets weight 1.0.
func NoWeights() EdgeWeights { return EdgeWeights{kind: weightsNone} }

// Uniform assigns the same scalar weight to every hyperedge in the batch.
func Uniform(w float64) EdgeWeights {
	return EdgeWeights{kind: weightsUniform, scalar: w}
}

// PerEdge assigns one weight per hyperedge; the vector length must equal
// the batch size or the consuming operation fails with ErrShapeMismatch.
func PerEdge(ws []float64) EdgeWeights {
	return EdgeWeights{kind: weightsPerEdge, vec: ws}
}

// resolve expands the tagged representation into a vector of length n.
func (w EdgeWeights) resolve(n int) ([]float64, error) {
	switch w.kind {
	case weightsNone:
		out := make([]float64, n)
		for i := range out {
			out[i] = 1.0
		}

		return out, nil
	case weightsUniform:
		out := make([]float64, n)
		for i := range out {
			out[i] = w.scalar
		}

		return out, nil
	default:
		if len(w.vec) != n {
			return nil, ErrShapeMismatch
		}

		return append([]float64(nil), w.vec...), nil
	}
}

// defaultSeed is the fixed seed used when callers pass seed==0, keeping
// dropout reproducible by default (same policy as seeded heuristics
// elsewhere in this module family).
const defaultSeed uint64 = 1

// Option configures a Hypergraph before the initial edge batch is applied.
type Option func(*config)

type config struct {
	edges    [][]int
	eWeights EdgeWeights
	vWeights []float64
	mergeOp  MergeOp
	device   Device
	uniformK int
	seed     uint64
}

// WithEdgeList supplies an initial batch of hyperedges, added to the
// DefaultGroup during construction.
func WithEdgeList(edges [][]int) Option {
	return func(c *config) { c.edges = edges }
}

// WithEdgeWeights supplies weights for the initial edge batch.
func WithEdgeWeights(w EdgeWeights) Option {
	return func(c *config) { c.eWeights = w }
}

// WithVertexWeights sets the per-vertex weight vector; its length must
// equal the vertex count.
func WithVertexWeights(w []float64) Option {
	return func(c *config) { c.vWeights = w }
}

// WithMergeOp sets the merge operation used for the initial edge batch.
// Default: MergeMean.
func WithMergeOp(op MergeOp) Option {
	return func(c *config) { c.mergeOp = op }
}

// WithDevice binds the structure to a compute location at construction.
// Default: DeviceCPU.
func WithDevice(d Device) Option {
	return func(c *config) { c.device = d }
}

// WithUniformEdgeSize constrains every hyperedge to exactly k members,
// turning the structure into a k-uniform hypergraph. Zero (the default)
// means no constraint.
func WithUniformEdgeSize(k int) Option {
	return func(c *config) { c.uniformK = k }
}

// WithSeed fixes the random stream used by structural dropout.
// Seed 0 selects the package's stable default seed.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = seed }
}

// AggrOptions tunes a single aggregation step (V2E or E2V).
type AggrOptions struct {
	// Weight optionally replaces the propagation matrix values: one weight
	// per stored incidence entry, substituted on the structural sparsity
	// pattern. Nil keeps the structural incidence.
	Weight []float64

	// DropRate is the probability of zeroing each stored incidence entry
	// before the multiply. Zero disables dropout.
	DropRate float64
}

// DefaultAggrOptions returns the zero configuration: structural incidence,
// no dropout.
func DefaultAggrOptions() AggrOptions { return AggrOptions{} }

// unsetRate marks a per-stage drop rate as "inherit the top-level value".
func unsetRate() float64 { return math.NaN() }

// V2VOptions tunes the two stages of a vertex→vertex round trip. Zero-value
// fields inherit the top-level aggregation method and drop rate passed to
// V2V; NaN drop rates mean "inherit" (see DefaultV2VOptions).
type V2VOptions struct {
	V2EAggr     AggrMethod // "" inherits the top-level method
	E2VAggr     AggrMethod
	V2EDropRate float64 // NaN inherits the top-level rate
	E2VDropRate float64
	V2EWeight   []float64
	E2VWeight   []float64
	EdgeWeight  []float64 // optional per-hyperedge scale for the update step
}

// DefaultV2VOptions returns a configuration where both stages inherit the
// top-level aggregation method and drop rate.
func DefaultV2VOptions() V2VOptions {
	return V2VOptions{
		V2EDropRate: unsetRate(),
		E2VDropRate: unsetRate(),
	}
}

// newSource builds the deterministic random source backing dropout streams.
func newSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.NewSource(seed)
}

package builder

import "errors"

// Sentinel errors for hypergraph construction from features.
var (
	// ErrEmptyFeatures indicates a feature matrix with no rows or no columns.
	ErrEmptyFeatures = errors.New("builder: empty feature matrix")

	// ErrBadNeighborCount indicates k outside [1, N] for an N-row feature
	// matrix.
	ErrBadNeighborCount = errors.New("builder: neighbor count out of range")

	// ErrUnsupportedWeighting indicates a weighting scheme outside the
	// supported set.
	ErrUnsupportedWeighting = errors.New("builder: unsupported weighting scheme")
)

// WeightScheme selects how hyperedge weights are derived from the features.
type WeightScheme string

const (
	// WeightNone assigns weight 1 to every hyperedge.
	WeightNone WeightScheme = "none"

	// WeightMAD derives weights from the per-column median absolute
	// deviation of each neighborhood.
	WeightMAD WeightScheme = "mad"

	// WeightEuclidean derives weights from the pairwise member distances,
	// scaled by the median distance of the whole feature set.
	WeightEuclidean WeightScheme = "euclidean"
)

func (s WeightScheme) valid() bool {
	switch s {
	case WeightNone, WeightMAD, WeightEuclidean:
		return true
	}

	return false
}

// defaultAlpha is the MAD decay rate used when the caller sets none.
const defaultAlpha = 1.0

// BuildOption configures FromFeatureKNN.
type BuildOption func(*buildConfig)

type buildConfig struct {
	scheme WeightScheme
	alpha  float64
	group  string
}

// WithWeighting selects the hyperedge weighting scheme. Default: WeightNone.
func WithWeighting(s WeightScheme) BuildOption {
	return func(c *buildConfig) { c.scheme = s }
}

// WithAlpha sets the decay rate of the WeightMAD scheme; larger values
// punish spread-out neighborhoods harder. Default: 1.0. Ignored by the
// other schemes.
func WithAlpha(alpha float64) BuildOption {
	return func(c *buildConfig) { c.alpha = alpha }
}

// WithGroup places the constructed hyperedges into the named group instead
// of hypergraph.DefaultGroup.
func WithGroup(group string) BuildOption {
	return func(c *buildConfig) { c.group = group }
}

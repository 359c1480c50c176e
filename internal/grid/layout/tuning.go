package layout

// Tuning holds the heuristic constants of the pipeline. The numbers are
// calibration targets, not contracts: they load from configuration so
// deployments can adjust them against real data distributions.
type Tuning struct {
	// Tier breakpoints: width < NarrowBelow → narrow,
	// width < MediumBelow → medium, else wide.
	NarrowBelow int `koanf:"narrow_below"`
	MediumBelow int `koanf:"medium_below"`

	// DominantShare is the minimum share of non-null samples a single
	// value must hold to become the column's dominant value.
	DominantShare float64 `koanf:"dominant_share"`

	// Demotion pressure: priority classes at or past these marks are
	// downgraded one step further. Applied only under the tier named.
	HeaderOnlyAtPriority int `koanf:"header_only_at_priority"`
	CollapseAtPriority   int `koanf:"collapse_at_priority"`
	HideAtPriority       int `koanf:"hide_at_priority"`

	// Width floors and caps, in cells.
	MinColumnWidth       int `koanf:"min_column_width"`
	MaxColumnWidth       int `koanf:"max_column_width"`
	CollapsedColumnWidth int `koanf:"collapsed_column_width"`

	// DefaultStaticWidth is used by the fallback layout for columns
	// with no explicit width.
	DefaultStaticWidth int `koanf:"default_static_width"`

	// SlackWeights shares residual width by priority class: class 0
	// receives SlackWeights[0] parts, and so on. Classes past the end
	// receive the last entry.
	SlackWeights []float64 `koanf:"slack_weights"`

	// LowCardinalityMax is the distinct-count at or below which a
	// column is considered cheap to demote.
	LowCardinalityMax int `koanf:"low_cardinality_max"`

	// SparseNullRatio is the null ratio above which a column is
	// considered low-information.
	SparseNullRatio float64 `koanf:"sparse_null_ratio"`
}

// DefaultTuning returns the calibrated defaults.
func DefaultTuning() Tuning {
	return Tuning{
		NarrowBelow:          60,
		MediumBelow:          100,
		DominantShare:        0.8,
		HeaderOnlyAtPriority: PriorityLow,
		CollapseAtPriority:   PriorityMarginal,
		HideAtPriority:       PriorityMarginal + 1,
		MinColumnWidth:       6,
		MaxColumnWidth:       40,
		CollapsedColumnWidth: 3,
		DefaultStaticWidth:   16,
		SlackWeights:         []float64{4, 3, 2, 1, 0.5},
		LowCardinalityMax:    4,
		SparseNullRatio:      0.7,
	}
}

// weight returns the slack weight for a priority class.
func (t Tuning) weight(priority int) float64 {
	if len(t.SlackWeights) == 0 {
		return 1
	}
	if priority < 0 {
		priority = 0
	}
	if priority >= len(t.SlackWeights) {
		return t.SlackWeights[len(t.SlackWeights)-1]
	}
	return t.SlackWeights[priority]
}

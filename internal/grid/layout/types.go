// Package layout implements the adaptive column layout pipeline: it
// turns per-column content statistics and a width budget into a single
// consistent width/alignment/visibility plan. Every stage is a pure
// function; the orchestrator composes them into one ComputedLayout
// snapshot per recompute.
package layout

// Tier is a discrete responsive breakpoint derived from container width.
type Tier string

const (
	TierNarrow Tier = "narrow"
	TierMedium Tier = "medium"
	TierWide   Tier = "wide"
)

// Profile is the display profile: the tier plus the pixel/cell budget
// available for column allocation after fixed chrome.
type Profile struct {
	Tier           Tier
	TotalWidth     int
	EffectiveWidth int
}

// Alignment of a column's cells.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// DemotionTier is how much visual space a column is granted.
type DemotionTier string

const (
	// DemotionNormal renders the column fully.
	DemotionNormal DemotionTier = "normal"
	// DemotionHeaderOnly suppresses cell bodies; the header is annotated
	// with the column's dominant value.
	DemotionHeaderOnly DemotionTier = "header_only"
	// DemotionCollapsed keeps a minimal presence indicator only.
	DemotionCollapsed DemotionTier = "collapsed"
	// DemotionHidden excludes the column entirely.
	DemotionHidden DemotionTier = "hidden"
)

// ColumnMetrics is the analyzer's output for one field. Recomputed
// whenever the loaded row set changes; never persisted.
type ColumnMetrics struct {
	FieldKey      string
	SampleCount   int     // rows scanned
	NonNullCount  int     // rows with a non-empty value
	MaxLen        int     // longest value, in runes
	AvgLen        float64 // mean length of non-empty values
	DistinctCount int     // distinct non-empty values
	NullRatio     float64 // empty / scanned
	Homogeneity   float64 // share of non-empty rows holding the most common value
	DominantValue string  // set when Homogeneity crosses the dominant threshold
}

// HasDominant reports whether a single value recurs enough to stand in
// for the whole column.
func (m ColumnMetrics) HasDominant() bool { return m.DominantValue != "" }

// Priority classes, lower = more important.
const (
	PriorityIdentity = 0 // the record's identifying column
	PriorityHigh     = 1
	PriorityNormal   = 2
	PriorityLow      = 3
	PriorityMarginal = 4
	priorityClassMax = PriorityMarginal
)

// ComputedColumn is one column's slot in the computed layout.
type ComputedColumn struct {
	FieldKey      string
	Label         string
	Width         int
	Align         Alignment
	Tier          DemotionTier
	Priority      int
	DominantValue string
	Editable      bool
	Sortable      bool
}

// ComputedLayout is an immutable layout snapshot. A new one replaces
// the old on every recompute; it is never mutated in place.
type ComputedLayout struct {
	Profile  Profile
	Columns  []ComputedColumn // display order, excludes hidden columns' widths only at render
	Demoted  int              // columns below DemotionNormal but still present
	Hidden   int              // columns excluded entirely
	Fallback bool             // true when the static fallback path produced this layout
	Density  string
}

// Visible returns the columns that occupy width (everything not hidden).
func (l ComputedLayout) Visible() []ComputedColumn {
	out := make([]ComputedColumn, 0, len(l.Columns))
	for _, c := range l.Columns {
		if c.Tier != DemotionHidden {
			out = append(out, c)
		}
	}
	return out
}

// Column returns the computed column for a field key, if present.
func (l ComputedLayout) Column(key string) (ComputedColumn, bool) {
	for _, c := range l.Columns {
		if c.FieldKey == key {
			return c, true
		}
	}
	return ComputedColumn{}, false
}

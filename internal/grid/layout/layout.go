package layout

import (
	"github.com/gridline-labs/gridline/internal/grid"
	"github.com/gridline-labs/gridline/internal/schema"
)

// Input carries everything one recompute needs. The orchestrator holds
// no state of its own and never subscribes to anything; the consumer
// calls Compute whenever rows, columns, schema or overrides change.
type Input struct {
	TotalWidth  int
	ChromeWidth int

	Rows        []grid.Row
	RowsVersion int64 // bumped by the consumer when the loaded set changes; cache key only

	Columns  []grid.ViewColumn
	Fields   *schema.Registry
	Override *grid.LayoutOverride

	AutoSize       bool
	DemoteColumns  bool
	Density        grid.Density
	StaticFallback bool // force the fallback path regardless of rows

	Tuning Tuning
}

// resolved is a view column joined with its schema definition.
type resolved struct {
	col grid.ViewColumn
	def schema.FieldDefinition
}

// Compute runs the full pipeline and returns one immutable layout
// snapshot. Columns whose field key has no schema definition are
// silently excluded. With auto-sizing disabled or no rows loaded the
// heuristic stages are bypassed entirely, so a freshly-opened view
// never flashes a degraded layout.
func Compute(in Input) ComputedLayout {
	profile := BuildProfile(in.TotalWidth, in.ChromeWidth, in.Tuning)

	cols := resolveColumns(in.Columns, in.Fields)

	if !in.AutoSize || in.StaticFallback || len(in.Rows) == 0 {
		return staticLayout(profile, cols, in)
	}

	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.col.FieldKey
	}
	metrics := Analyze(in.Rows, keys, in.Tuning)
	identifier := in.Fields.Identifier()

	// Priority and demotion per column, then widths over the whole set.
	reqs := make([]WidthRequest, len(cols))
	priorities := make([]int, len(cols))
	tiers := make([]DemotionTier, len(cols))
	for i, c := range cols {
		m := metrics[c.col.FieldKey]
		_, hasOverride := in.Override.Column(c.col.FieldKey)
		p := AssignPriority(c.def, m, c.col.FieldKey == identifier, in.Tuning)
		d := ComputeDemotion(m, p, hasOverride, in.DemoteColumns, profile.Tier, in.Tuning)
		priorities[i] = p
		tiers[i] = d

		var pct float64
		if o, ok := in.Override.Column(c.col.FieldKey); ok && o.HasWidth() {
			pct = o.WidthPct
		}
		reqs[i] = WidthRequest{
			FieldKey:    c.col.FieldKey,
			Label:       columnLabel(c),
			Metrics:     m,
			Priority:    p,
			Tier:        d,
			OverridePct: pct,
		}
	}
	widths := AllocateWidths(reqs, profile.EffectiveWidth, in.Tuning)

	out := ComputedLayout{
		Profile: profile,
		Columns: make([]ComputedColumn, len(cols)),
		Density: densityOf(in),
	}
	for i, c := range cols {
		m := metrics[c.col.FieldKey]
		var alignOverride string
		if o, ok := in.Override.Column(c.col.FieldKey); ok {
			alignOverride = o.Align
		}
		w := widths[c.col.FieldKey]
		out.Columns[i] = ComputedColumn{
			FieldKey:      c.col.FieldKey,
			Label:         columnLabel(c),
			Width:         w,
			Align:         ComputeAlignment(c.def, m, w, alignOverride),
			Tier:          tiers[i],
			Priority:      priorities[i],
			DominantValue: m.DominantValue,
			Editable:      c.def.Editable,
			Sortable:      c.def.Sortable,
		}
		switch tiers[i] {
		case DemotionHidden:
			out.Hidden++
		case DemotionHeaderOnly, DemotionCollapsed:
			out.Demoted++
		}
	}
	return out
}

// staticLayout is the fallback path: normal tier, type-default
// alignment left, configured or default static widths.
func staticLayout(profile Profile, cols []resolved, in Input) ComputedLayout {
	out := ComputedLayout{
		Profile:  profile,
		Columns:  make([]ComputedColumn, len(cols)),
		Fallback: true,
		Density:  densityOf(in),
	}
	for i, c := range cols {
		w := c.col.Width
		if w <= 0 {
			w = in.Tuning.DefaultStaticWidth
		}
		out.Columns[i] = ComputedColumn{
			FieldKey: c.col.FieldKey,
			Label:    columnLabel(c),
			Width:    w,
			Align:    AlignLeft,
			Tier:     DemotionNormal,
			Priority: PriorityNormal,
			Editable: c.def.Editable,
			Sortable: c.def.Sortable,
		}
	}
	clampStatic(out.Columns, profile.EffectiveWidth)
	return out
}

// clampStatic trims static widths so even the fallback layout honors
// the budget invariant.
func clampStatic(cols []ComputedColumn, budget int) {
	total := 0
	for _, c := range cols {
		total += c.Width
	}
	for total > budget {
		shrunk := false
		for i := len(cols) - 1; i >= 0 && total > budget; i-- {
			if cols[i].Width > 1 {
				cols[i].Width--
				total--
				shrunk = true
			}
		}
		if !shrunk {
			return
		}
	}
}

func resolveColumns(cols []grid.ViewColumn, fields *schema.Registry) []resolved {
	out := make([]resolved, 0, len(cols))
	for _, c := range cols {
		def, ok := fields.Lookup(c.FieldKey)
		if !ok {
			continue // no schema: excluded, not an error
		}
		out = append(out, resolved{col: c, def: def})
	}
	return out
}

func columnLabel(c resolved) string {
	if c.col.Label != "" {
		return c.col.Label
	}
	if c.def.Label != "" {
		return c.def.Label
	}
	return c.col.FieldKey
}

func densityOf(in Input) string {
	if in.Override != nil && in.Override.Density != "" {
		return string(in.Override.Density)
	}
	if in.Density != "" {
		return string(in.Density)
	}
	return string(grid.DensityComfortable)
}

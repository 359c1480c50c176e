package layout

// ComputeDemotion decides how much rendering a column keeps. Decisions
// are independent across columns; the orchestrator aggregates counts.
//
// Space pressure comes from the display tier: a wide container demotes
// one class later, a narrow one a class earlier. A column with any user
// override is never demoted past normal, and header-only demotion
// requires a dominant value to annotate the header with.
func ComputeDemotion(m ColumnMetrics, priority int, hasOverride, enabled bool, tier Tier, t Tuning) DemotionTier {
	if !enabled || hasOverride || priority == PriorityIdentity {
		return DemotionNormal
	}

	shift := 0
	switch tier {
	case TierWide:
		shift = 1
	case TierNarrow:
		shift = -1
	}

	switch {
	case priority >= t.HideAtPriority+shift:
		return DemotionHidden
	case priority >= t.CollapseAtPriority+shift:
		return DemotionCollapsed
	case priority >= t.HeaderOnlyAtPriority+shift:
		if m.HasDominant() {
			return DemotionHeaderOnly
		}
		return DemotionCollapsed
	}
	return DemotionNormal
}

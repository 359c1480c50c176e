package layout

import "github.com/gridline-labs/gridline/internal/schema"

// AssignPriority classifies a column into an ordinal priority class.
// The identifying column always gets the top class. Otherwise priority
// tracks information density: varied, distinct values earn a higher
// class; near-constant or mostly-null columns sink, because demoting
// them loses the least meaning.
func AssignPriority(def schema.FieldDefinition, m ColumnMetrics, identifier bool, t Tuning) int {
	if identifier {
		return PriorityIdentity
	}

	// No sample yet: trust the schema. Editable text fields tend to
	// carry the record's substance.
	if m.SampleCount == 0 {
		if def.Type == schema.TypeText {
			return PriorityHigh
		}
		return PriorityNormal
	}

	score := PriorityNormal

	// Near-constant columns carry almost no per-row signal.
	if m.HasDominant() {
		score++
	}
	if m.NonNullCount > 0 && m.DistinctCount <= t.LowCardinalityMax {
		score++
	}
	// Mostly-empty columns are cheap to give up.
	if m.NullRatio >= t.SparseNullRatio {
		score++
	}

	// Varied free text earns space: many distinct values and a real
	// spread of lengths.
	if m.DistinctCount > t.LowCardinalityMax && float64(m.MaxLen) > m.AvgLen*1.5 {
		score--
	}
	if def.Type == schema.TypeText && m.DistinctCount >= m.NonNullCount && m.NonNullCount > 1 {
		score--
	}

	if score < PriorityHigh {
		score = PriorityHigh
	}
	if score > priorityClassMax {
		score = priorityClassMax
	}
	return score
}

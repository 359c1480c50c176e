package layout

import "github.com/gridline-labs/gridline/internal/schema"

// ComputeAlignment picks a column's cell alignment from its type,
// statistics and allocated width. A user override always wins.
func ComputeAlignment(def schema.FieldDefinition, m ColumnMetrics, width int, override string) Alignment {
	switch Alignment(override) {
	case AlignLeft, AlignCenter, AlignRight:
		return Alignment(override)
	}

	if def.Numeric() {
		return AlignRight
	}
	if def.ShortFormat() {
		// Short fixed-format values read fine centered, but in a tight
		// column right alignment keeps digits ragged-left and scannable.
		if width > 0 && width <= 8 {
			return AlignRight
		}
		return AlignCenter
	}
	// Uniformly tiny values (flags, codes) center even as plain text.
	if m.NonNullCount > 0 && m.MaxLen <= 3 {
		return AlignCenter
	}
	return AlignLeft
}

package layout

import (
	"unicode/utf8"

	"github.com/gridline-labs/gridline/internal/grid"
)

// Analyze scans the loaded rows and produces per-field statistics for
// the later pipeline stages. Pure function of rows + field keys: no
// caching, no side effects. Partial page windows are fine; stages treat
// the results as a sample, not a census.
func Analyze(rows []grid.Row, fieldKeys []string, t Tuning) map[string]ColumnMetrics {
	out := make(map[string]ColumnMetrics, len(fieldKeys))
	for _, key := range fieldKeys {
		out[key] = analyzeField(rows, key, t)
	}
	return out
}

func analyzeField(rows []grid.Row, key string, t Tuning) ColumnMetrics {
	m := ColumnMetrics{FieldKey: key, SampleCount: len(rows)}
	if len(rows) == 0 {
		return m
	}

	counts := make(map[string]int)
	totalLen := 0
	for _, row := range rows {
		v := row.Get(key)
		if v == "" {
			continue
		}
		m.NonNullCount++
		n := utf8.RuneCountInString(v)
		totalLen += n
		if n > m.MaxLen {
			m.MaxLen = n
		}
		counts[v]++
	}

	m.NullRatio = float64(m.SampleCount-m.NonNullCount) / float64(m.SampleCount)
	m.DistinctCount = len(counts)
	if m.NonNullCount == 0 {
		return m
	}
	m.AvgLen = float64(totalLen) / float64(m.NonNullCount)

	top, topCount := "", 0
	for v, c := range counts {
		if c > topCount {
			top, topCount = v, c
		}
	}
	m.Homogeneity = float64(topCount) / float64(m.NonNullCount)
	if m.Homogeneity >= t.DominantShare {
		m.DominantValue = top
	}
	return m
}

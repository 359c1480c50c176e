package layout

import (
	"math"
	"unicode/utf8"
)

// WidthRequest is one column's input to the allocator.
type WidthRequest struct {
	FieldKey    string
	Label       string
	Metrics     ColumnMetrics
	Priority    int
	Tier        DemotionTier
	OverridePct float64 // 0 = no override; otherwise exact share of effective width
}

// slot tracks one pool column's bounds during allocation.
type slot struct {
	req   WidthRequest
	floor int
	cap   int
}

// AllocateWidths distributes the effective width across non-hidden
// columns. Order of operations:
//
//  1. hidden columns are dropped from the distributable set (width 0);
//  2. collapsed columns take a small fixed indicator width;
//  3. override columns take exactly their percentage of the effective
//     width and leave the slack pool entirely;
//  4. every remaining column is brought up to its floor, then slack is
//     shared proportionally to priority weight up to each column's
//     content-derived cap;
//  5. the result is clamped so the total never exceeds the budget.
//
// Returns widths keyed by field key. Hidden columns map to 0.
func AllocateWidths(reqs []WidthRequest, effectiveWidth int, t Tuning) map[string]int {
	widths := make(map[string]int, len(reqs))

	var pool []slot
	fixed := 0 // width already spoken for by collapsed + override columns

	for _, r := range reqs {
		switch {
		case r.Tier == DemotionHidden:
			widths[r.FieldKey] = 0
		case r.OverridePct > 0:
			w := int(math.Floor(r.OverridePct * float64(effectiveWidth)))
			if w < 1 {
				w = 1
			}
			widths[r.FieldKey] = w
			fixed += w
		case r.Tier == DemotionCollapsed:
			widths[r.FieldKey] = t.CollapsedColumnWidth
			fixed += t.CollapsedColumnWidth
		default:
			floor, cap := widthBounds(r, t)
			pool = append(pool, slot{req: r, floor: floor, cap: cap})
		}
	}

	budget := effectiveWidth - fixed
	if budget < 0 {
		budget = 0
	}

	// Satisfy floors first.
	floorTotal := 0
	for _, s := range pool {
		floorTotal += s.floor
	}
	for _, s := range pool {
		widths[s.req.FieldKey] = s.floor
	}

	if floorTotal < budget {
		distributeSlack(widths, pool, budget-floorTotal, t)
	} else if floorTotal > budget {
		shrinkToFit(widths, pool, floorTotal-budget)
	}

	clampTotal(widths, reqs, effectiveWidth)
	return widths
}

// widthBounds derives a column's floor and cap from its content.
func widthBounds(r WidthRequest, t Tuning) (floor, cap int) {
	floor = t.MinColumnWidth
	desired := r.Metrics.MaxLen
	if l := utf8.RuneCountInString(r.Label); l > desired {
		desired = l
	}
	desired++ // one cell of padding
	cap = desired
	if cap > t.MaxColumnWidth {
		cap = t.MaxColumnWidth
	}
	if cap < floor {
		cap = floor
	}
	return floor, cap
}

// distributeSlack shares leftover width proportionally by priority
// weight, re-running after caps bind until the slack is gone or every
// column is capped.
func distributeSlack(widths map[string]int, pool []slot, slack int, t Tuning) {
	for slack > 0 {
		var open []int
		weightSum := 0.0
		for i, s := range pool {
			if widths[s.req.FieldKey] < s.cap {
				open = append(open, i)
				weightSum += t.weight(s.req.Priority)
			}
		}
		if len(open) == 0 || weightSum == 0 {
			return
		}

		granted := 0
		for _, i := range open {
			s := pool[i]
			share := int(math.Floor(float64(slack) * t.weight(s.req.Priority) / weightSum))
			if share == 0 {
				share = 1 // guarantee progress on tiny remainders
			}
			room := s.cap - widths[s.req.FieldKey]
			if share > room {
				share = room
			}
			if share > slack-granted {
				share = slack - granted
			}
			widths[s.req.FieldKey] += share
			granted += share
			if granted == slack {
				break
			}
		}
		if granted == 0 {
			return
		}
		slack -= granted
	}
}

// shrinkToFit takes width back from pool columns, lowest priority
// first, never below one cell.
func shrinkToFit(widths map[string]int, pool []slot, excess int) {
	for excess > 0 {
		shrunk := false
		for p := priorityClassMax; p >= PriorityIdentity && excess > 0; p-- {
			for _, s := range pool {
				if s.req.Priority != p {
					continue
				}
				if w := widths[s.req.FieldKey]; w > 1 && excess > 0 {
					widths[s.req.FieldKey] = w - 1
					excess--
					shrunk = true
				}
			}
		}
		if !shrunk {
			return
		}
	}
}

// clampTotal enforces the hard budget. Overrides are trimmed only when
// nothing else is left to take from.
func clampTotal(widths map[string]int, reqs []WidthRequest, effectiveWidth int) {
	total := 0
	for _, w := range widths {
		total += w
	}
	if total <= effectiveWidth {
		return
	}
	excess := total - effectiveWidth

	// two passes: non-override columns first, then overrides
	for pass := 0; pass < 2 && excess > 0; pass++ {
		for excess > 0 {
			shrunk := false
			for i := len(reqs) - 1; i >= 0 && excess > 0; i-- {
				r := reqs[i]
				if pass == 0 && r.OverridePct > 0 {
					continue
				}
				if w := widths[r.FieldKey]; w > 1 {
					widths[r.FieldKey] = w - 1
					excess--
					shrunk = true
				}
			}
			if !shrunk {
				break
			}
		}
	}
}

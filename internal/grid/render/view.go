package render

import (
	"fmt"
	"strings"

	"github.com/gridline-labs/gridline/internal/grid"
	"github.com/gridline-labs/gridline/internal/grid/layout"
)

// View renders the grid: header, windowed rows, and a status line.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	lay := m.layout()
	cols := lay.Visible()
	st := m.nav.State()

	var b strings.Builder
	b.WriteString(m.renderHeader(cols, st.SortField, st.SortDir))
	b.WriteByte('\n')
	if lay.Density != string(grid.DensityCompact) {
		b.WriteString(m.renderSeparator(cols))
		b.WriteByte('\n')
	}

	vp := m.ViewportRows()
	end := m.scroll + vp
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.scroll; i < end; i++ {
		b.WriteString(m.renderRow(cols, i))
		b.WriteByte('\n')
	}
	for i := end - m.scroll; i < vp; i++ {
		b.WriteByte('\n')
	}

	if m.searching {
		b.WriteString(m.styles.SearchPrompt.Render(m.search.View()))
		b.WriteByte('\n')
	}
	b.WriteString(m.renderStatus(lay))
	return b.String()
}

func (m *Model) renderHeader(cols []layout.ComputedColumn, sortField string, dir grid.SortDirection) string {
	parts := make([]string, 0, len(cols)+1)
	parts = append(parts, "  ") // gutter over the mark/selection column
	for _, c := range cols {
		label := c.Label
		switch c.Tier {
		case layout.DemotionHeaderOnly:
			// the header stands in for every cell in the column
			if c.DominantValue != "" {
				label = fmt.Sprintf("%s: %s", c.Label, c.DominantValue)
			}
		case layout.DemotionCollapsed:
			if r := []rune(c.Label); len(r) > 0 {
				label = string(r[:1])
			}
		}
		if c.FieldKey == sortField {
			arrow := "↑"
			if dir == grid.SortDesc {
				arrow = "↓"
			}
			label += arrow
		}
		style := m.styles.Header
		if c.Tier != layout.DemotionNormal {
			style = m.styles.HeaderDemoted
		}
		parts = append(parts, style.Render(pad(label, c.Width, c.Align)))
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderSeparator(cols []layout.ComputedColumn) string {
	parts := make([]string, 0, len(cols)+1)
	parts = append(parts, "  ")
	for _, c := range cols {
		parts = append(parts, strings.Repeat("─", c.Width))
	}
	return m.styles.Status.Render(strings.Join(parts, " "))
}

func (m *Model) renderRow(cols []layout.ComputedColumn, index int) string {
	row := m.rows[index]
	st := m.nav.State()
	selected := index == st.SelectedRowIndex && st.SelectedRowID != ""
	marked := m.nav.Marked(row.ID)

	gutter := "  "
	switch {
	case marked && selected:
		gutter = "*>"
	case marked:
		gutter = "* "
	case selected:
		gutter = " >"
	}

	parts := make([]string, 0, len(cols)+1)
	parts = append(parts, gutter)
	for ci, c := range cols {
		cell := m.renderCell(row, c, selected && ci == st.FocusedColumn)
		parts = append(parts, cell)
	}
	line := strings.Join(parts, " ")

	switch {
	case selected:
		return m.styles.SelectedRow.Render(line)
	case marked:
		return m.styles.MarkedRow.Render(line)
	}
	return line
}

func (m *Model) renderCell(row grid.Row, c layout.ComputedColumn, focused bool) string {
	if focused && m.editing {
		// the editor renders its own width, set when it opened
		return m.editor.View()
	}

	var text string
	switch c.Tier {
	case layout.DemotionHeaderOnly:
		// the dominant value lives in the header; bodies stay empty
	case layout.DemotionCollapsed:
		if row.Get(c.FieldKey) != "" {
			text = "·"
		}
	default:
		text = row.Get(c.FieldKey)
	}

	out := pad(text, c.Width, c.Align)
	if c.Tier == layout.DemotionCollapsed {
		out = m.styles.Collapsed.Render(out)
	}
	if focused {
		out = m.styles.FocusedCell.Render(out)
	}
	return out
}

func (m *Model) renderStatus(lay layout.ComputedLayout) string {
	st := m.nav.State()
	parts := []string{fmt.Sprintf("%d/%d rows", len(m.rows), m.total)}
	if st.SelectedRowIndex >= 0 {
		parts = append(parts, fmt.Sprintf("row %d", st.SelectedRowIndex+1))
	}
	if n := m.nav.MarkedCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d marked", n))
	}
	if lay.Demoted+lay.Hidden > 0 {
		parts = append(parts, fmt.Sprintf("%d columns auto-compacted", lay.Demoted+lay.Hidden))
	}
	if st.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", st.Search))
	}
	if m.fetching {
		parts = append(parts, "loading...")
	}
	line := m.styles.Status.Render(strings.Join(parts, "  ·  "))
	if m.err != nil {
		line += "  " + m.styles.ErrorText.Render(m.err.Error())
	}
	return line
}

// pad truncates or space-pads a value to width with the alignment.
func pad(s string, width int, align layout.Alignment) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > width {
		if width > 1 {
			return string(runes[:width-1]) + "…"
		}
		return string(runes[:width])
	}
	gap := width - len(runes)
	switch align {
	case layout.AlignRight:
		return strings.Repeat(" ", gap) + s
	case layout.AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

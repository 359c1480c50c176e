package nav

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridline-labs/gridline/internal/grid"
)

func idOf(i int) string { return fmt.Sprintf("row-%d", i) }

func loadedStore(rows, cols int) *Store {
	s := NewStore()
	s.SetBounds(rows, cols)
	return s
}

func TestSelectRow_ToggleDeselects(t *testing.T) {
	s := loadedStore(10, 3)

	s.SelectRow("row-4", 4)
	assert.Equal(t, "row-4", s.State().SelectedRowID)
	assert.Equal(t, 4, s.State().SelectedRowIndex)

	// selecting the same row again deselects
	s.SelectRow("row-4", 4)
	assert.Empty(t, s.State().SelectedRowID)
	assert.Equal(t, -1, s.State().SelectedRowIndex)
}

func TestMoveSelection_ClampsAtBoundaries(t *testing.T) {
	s := loadedStore(10, 3)

	// index 5, page of 8 visible rows, 10 loaded
	s.SelectRow("row-5", 5)
	got := s.MoveSelection(8, idOf)
	assert.Equal(t, 9, got)
	assert.Equal(t, "row-9", s.State().SelectedRowID)

	got = s.MoveSelection(5, idOf)
	assert.Equal(t, 9, got, "cannot move past last loaded row")

	got = s.MoveSelection(-100, idOf)
	assert.Equal(t, 0, got)
}

func TestMoveSelection_FromNothingStartsAtEdge(t *testing.T) {
	s := loadedStore(5, 2)
	assert.Equal(t, 0, s.MoveSelection(1, idOf))

	s.ClearSelection()
	assert.Equal(t, 4, s.MoveSelection(-1, idOf))
}

func TestMoveSelection_NoRows(t *testing.T) {
	s := loadedStore(0, 2)
	assert.Equal(t, -1, s.MoveSelection(1, idOf))
}

func TestFocus_AlwaysInBounds(t *testing.T) {
	s := loadedStore(3, 4)

	assert.Equal(t, 0, s.MoveFocus(-1), "left from first column stays")
	assert.Equal(t, 3, s.MoveFocus(10), "right clamps to last column")
	s.FocusFirst()
	assert.Equal(t, 0, s.State().FocusedColumn)
	s.FocusLast()
	assert.Equal(t, 3, s.State().FocusedColumn)

	// shrinking the layout re-clamps focus
	s.SetBounds(3, 2)
	assert.Equal(t, 1, s.State().FocusedColumn)
}

func TestMarks_IndependentOfSelection(t *testing.T) {
	s := loadedStore(5, 2)
	s.SelectRow("row-2", 2)

	s.ToggleMark("row-0")
	s.ToggleMark("row-3")
	assert.True(t, s.Marked("row-0"))
	assert.Equal(t, 2, s.MarkedCount())
	assert.Equal(t, "row-2", s.State().SelectedRowID, "marking leaves selection alone")

	s.ToggleMark("row-0")
	assert.False(t, s.Marked("row-0"))
}

func TestMarkAllAndInvert(t *testing.T) {
	s := loadedStore(4, 2)
	ids := []string{"a", "b", "c", "d"}

	s.MarkAll(ids)
	assert.Equal(t, 4, s.MarkedCount())

	s.ToggleMark("b")
	s.InvertMarks(ids)
	assert.False(t, s.Marked("a"))
	assert.True(t, s.Marked("b"))
	assert.Equal(t, 1, s.MarkedCount())
}

func TestSortSearchViewResetSelection(t *testing.T) {
	reset := []struct {
		name string
		do   func(s *Store)
	}{
		{"sort", func(s *Store) { s.SetSort("name", grid.SortAsc) }},
		{"search", func(s *Store) { s.SetSearch("ada") }},
		{"filter", func(s *Store) { s.SetFilter("status", "Active") }},
		{"view", func(s *Store) { s.SetView("v2") }},
	}
	for _, tt := range reset {
		t.Run(tt.name, func(t *testing.T) {
			s := loadedStore(10, 3)
			s.SelectRow("row-7", 7)
			s.FocusColumn(2)

			tt.do(s)
			assert.Empty(t, s.State().SelectedRowID)
			assert.Equal(t, -1, s.State().SelectedRowIndex)
			assert.Equal(t, 0, s.State().FocusedColumn)
		})
	}
}

func TestSetView_ClearsMarks(t *testing.T) {
	s := loadedStore(4, 2)
	s.MarkAll([]string{"a", "b"})
	s.SetView("other")
	assert.Zero(t, s.MarkedCount())
}

func TestSetBounds_ShrinkDropsOutOfRangeSelection(t *testing.T) {
	s := loadedStore(10, 3)
	s.SelectRow("row-9", 9)
	s.SetBounds(5, 3)
	assert.Equal(t, 4, s.State().SelectedRowIndex)
}

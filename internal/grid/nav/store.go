// Package nav holds the grid's navigation and selection state: the
// single detail-focused row, the focused column, and an independent
// multi-select set. All writes go through named transition functions;
// reads are plain accessors. The store knows nothing about rendering
// or data fetching.
package nav

import "github.com/gridline-labs/gridline/internal/grid"

// State is a snapshot of the navigation state. Selection index and id
// always move together; -1 / "" mean no selection.
type State struct {
	SelectedRowID    string
	SelectedRowIndex int
	FocusedColumn    int
	MarkedRowIDs     map[string]struct{}
	SortField        string
	SortDir          grid.SortDirection
	Search           string
	Filters          map[string]string
	ViewID           string
}

// Store is the single-owner container for State. It is written from
// the UI event loop only; no internal locking is needed, but writers
// other than the controller and renderer are a bug.
type Store struct {
	state State

	// loadedRows and visibleColumns bound clamping; the renderer keeps
	// them current as data pages in and layouts change.
	loadedRows     int
	visibleColumns int
}

// NewStore returns a store with nothing selected.
func NewStore() *Store {
	return &Store{state: State{
		SelectedRowIndex: -1,
		MarkedRowIDs:     make(map[string]struct{}),
		Filters:          make(map[string]string),
	}}
}

// State returns a copy of the current state. The marked set is shared;
// treat it as read-only.
func (s *Store) State() State { return s.state }

// SetBounds updates the loaded-row count and visible column count used
// for clamping, re-clamping current selection and focus against them.
func (s *Store) SetBounds(loadedRows, visibleColumns int) {
	s.loadedRows = loadedRows
	s.visibleColumns = visibleColumns
	if s.state.SelectedRowIndex >= loadedRows {
		s.state.SelectedRowIndex = loadedRows - 1
		if s.state.SelectedRowIndex < 0 {
			s.state.SelectedRowID = ""
		}
	}
	s.clampFocus()
}

// LoadedRows returns the current loaded-row count.
func (s *Store) LoadedRows() int { return s.loadedRows }

// SelectRow selects a row by id and ordinal, setting both together.
// Selecting the already-selected row deselects it.
func (s *Store) SelectRow(id string, index int) {
	if s.state.SelectedRowID == id && id != "" {
		s.state.SelectedRowID = ""
		s.state.SelectedRowIndex = -1
		return
	}
	if index < -1 {
		index = -1
	}
	if index >= s.loadedRows {
		index = s.loadedRows - 1
	}
	s.state.SelectedRowID = id
	s.state.SelectedRowIndex = index
}

// ClearSelection drops the single selection without touching marks.
func (s *Store) ClearSelection() {
	s.state.SelectedRowID = ""
	s.state.SelectedRowIndex = -1
}

// MoveSelection moves the selected row by delta, clamped to the loaded
// range. Moving from no selection starts at the first row. Returns the
// new index, or -1 when there are no rows.
func (s *Store) MoveSelection(delta int, rowID func(index int) string) int {
	if s.loadedRows == 0 {
		return -1
	}
	idx := s.state.SelectedRowIndex
	if idx < 0 {
		if delta >= 0 {
			idx = 0
		} else {
			idx = s.loadedRows - 1
		}
	} else {
		idx += delta
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= s.loadedRows {
		idx = s.loadedRows - 1
	}
	s.state.SelectedRowIndex = idx
	if rowID != nil {
		s.state.SelectedRowID = rowID(idx)
	}
	return idx
}

// JumpToRow selects an absolute ordinal, clamped.
func (s *Store) JumpToRow(index int, rowID func(index int) string) int {
	if s.loadedRows == 0 {
		return -1
	}
	if index < 0 {
		index = 0
	}
	if index >= s.loadedRows {
		index = s.loadedRows - 1
	}
	s.state.SelectedRowIndex = index
	if rowID != nil {
		s.state.SelectedRowID = rowID(index)
	}
	return index
}

// MoveFocus shifts the focused column by delta within bounds.
func (s *Store) MoveFocus(delta int) int {
	s.state.FocusedColumn += delta
	s.clampFocus()
	return s.state.FocusedColumn
}

// FocusColumn sets the focused column ordinal, clamped.
func (s *Store) FocusColumn(index int) int {
	s.state.FocusedColumn = index
	s.clampFocus()
	return s.state.FocusedColumn
}

// FocusFirst and FocusLast move focus to the column boundaries.
func (s *Store) FocusFirst() { s.state.FocusedColumn = 0 }
func (s *Store) FocusLast() {
	s.state.FocusedColumn = s.visibleColumns - 1
	s.clampFocus()
}

func (s *Store) clampFocus() {
	if s.state.FocusedColumn < 0 {
		s.state.FocusedColumn = 0
	}
	if s.visibleColumns > 0 && s.state.FocusedColumn >= s.visibleColumns {
		s.state.FocusedColumn = s.visibleColumns - 1
	}
}

// ToggleMark flips a row's membership in the multi-select set. The
// single detail selection is untouched.
func (s *Store) ToggleMark(id string) {
	if id == "" {
		return
	}
	if _, ok := s.state.MarkedRowIDs[id]; ok {
		delete(s.state.MarkedRowIDs, id)
	} else {
		s.state.MarkedRowIDs[id] = struct{}{}
	}
}

// MarkAll marks every loaded row id.
func (s *Store) MarkAll(ids []string) {
	for _, id := range ids {
		s.state.MarkedRowIDs[id] = struct{}{}
	}
}

// InvertMarks inverts membership over the loaded row ids.
func (s *Store) InvertMarks(ids []string) {
	for _, id := range ids {
		if _, ok := s.state.MarkedRowIDs[id]; ok {
			delete(s.state.MarkedRowIDs, id)
		} else {
			s.state.MarkedRowIDs[id] = struct{}{}
		}
	}
}

// ClearMarks empties the multi-select set.
func (s *Store) ClearMarks() {
	s.state.MarkedRowIDs = make(map[string]struct{})
}

// Marked reports whether a row id is in the multi-select set.
func (s *Store) Marked(id string) bool {
	_, ok := s.state.MarkedRowIDs[id]
	return ok
}

// MarkedCount returns the size of the multi-select set.
func (s *Store) MarkedCount() int { return len(s.state.MarkedRowIDs) }

// SetSort changes the sort and resets selection and focus: a selection
// is only meaningful against a specific ordered result set.
func (s *Store) SetSort(field string, dir grid.SortDirection) {
	s.state.SortField = field
	s.state.SortDir = dir
	s.resetForNewResultSet()
}

// SetSearch changes the free-text search and resets selection.
func (s *Store) SetSearch(q string) {
	s.state.Search = q
	s.resetForNewResultSet()
}

// SetFilter sets or clears (empty value) one quick filter and resets
// selection.
func (s *Store) SetFilter(field, value string) {
	if value == "" {
		delete(s.state.Filters, field)
	} else {
		s.state.Filters[field] = value
	}
	s.resetForNewResultSet()
}

// SetView switches the active view, resetting everything that was
// scoped to the previous result set, marks included.
func (s *Store) SetView(viewID string) {
	s.state.ViewID = viewID
	s.state.MarkedRowIDs = make(map[string]struct{})
	s.resetForNewResultSet()
}

func (s *Store) resetForNewResultSet() {
	s.state.SelectedRowID = ""
	s.state.SelectedRowIndex = -1
	s.state.FocusedColumn = 0
	s.loadedRows = 0
}

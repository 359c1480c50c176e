// Package control implements the grid's keyboard state machine. It has
// two modes: browsing, where keys act on navigation and selection, and
// editing, where every key except Tab belongs to the inline editor.
// Side effects are confined to nav store transitions, edit-start
// requests, and bus notifications; the controller never touches the
// data layer.
package control

import (
	"time"

	"github.com/gridline-labs/gridline/internal/grid/event"
	"github.com/gridline-labs/gridline/internal/grid/layout"
	"github.com/gridline-labs/gridline/internal/grid/nav"
)

// Mode of the state machine.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeEditing
)

// EditingCell identifies the single open inline editor. InitialChars
// carries a printable character typed in browsing mode into the editor
// as its starting content.
type EditingCell struct {
	RowID        string
	FieldKey     string
	InitialChars string
}

// GridContext is what the controller needs to know about the rendered
// grid. The renderer implements it against its current layout and rows.
type GridContext interface {
	// Columns returns the visible (non-hidden) computed columns in
	// display order; indices align with the nav store's focused column.
	Columns() []layout.ComputedColumn
	// RowID maps a loaded-row ordinal to its id.
	RowID(index int) string
	// RowCount is the number of loaded rows.
	RowCount() int
	// ViewportRows is how many rows fit the current viewport.
	ViewportRows() int
}

// EditSink receives edit lifecycle requests. The renderer opens and
// closes the actual editor component.
type EditSink interface {
	OpenEditor(cell EditingCell)
	CloseEditor(commit bool)
}

// Scheduler defers a function; the default uses time.AfterFunc. The
// renderer substitutes its own event-loop-safe implementation, and
// tests substitute a synchronous one.
type Scheduler func(d time.Duration, fn func())

// Controller is the global key listener.
type Controller struct {
	store *nav.Store
	bus   *event.Bus
	grid  GridContext
	sink  EditSink

	mode    Mode
	editing *EditingCell

	// TabAdvanceDelay sequences the next editor open after the previous
	// editor's own close/save handler has run. Best-effort ordering,
	// not a hard contract.
	TabAdvanceDelay time.Duration

	schedule Scheduler

	// externalFocus suppresses all handling while some other surface's
	// text input owns the keyboard.
	externalFocus bool
}

// New creates a controller in browsing mode.
func New(store *nav.Store, bus *event.Bus, grid GridContext, sink EditSink, tabDelay time.Duration) *Controller {
	return &Controller{
		store:           store,
		bus:             bus,
		grid:            grid,
		sink:            sink,
		TabAdvanceDelay: tabDelay,
		schedule: func(d time.Duration, fn func()) {
			if d <= 0 {
				fn()
				return
			}
			time.AfterFunc(d, fn)
		},
	}
}

// SetScheduler replaces the deferred-call implementation.
func (c *Controller) SetScheduler(s Scheduler) { c.schedule = s }

// SetExternalFocus marks whether an external text input owns the
// keyboard. While true, HandleKey ignores everything.
func (c *Controller) SetExternalFocus(focused bool) { c.externalFocus = focused }

// Mode returns the current machine state.
func (c *Controller) Mode() Mode { return c.mode }

// Editing returns the open editing cell, or nil.
func (c *Controller) Editing() *EditingCell {
	if c.editing == nil {
		return nil
	}
	cell := *c.editing
	return &cell
}

// EndEditing returns the machine to browsing mode. Called by the
// renderer when the inline editor commits or cancels on its own.
func (c *Controller) EndEditing() {
	c.mode = ModeBrowsing
	c.editing = nil
}

// HandleKey processes one key in bubbletea string form ("down", "j",
// "shift+down", "ctrl+a", "tab", single printable runes, ...).
// Returns true when the controller consumed the key.
func (c *Controller) HandleKey(key string) bool {
	if c.externalFocus {
		return false
	}
	if c.mode == ModeEditing {
		return c.handleEditingKey(key)
	}
	return c.handleBrowsingKey(key)
}

func (c *Controller) handleEditingKey(key string) bool {
	switch key {
	case "tab":
		c.advanceEdit(+1)
		return true
	case "shift+tab":
		c.advanceEdit(-1)
		return true
	}
	// the inline editor owns everything else
	return false
}

func (c *Controller) handleBrowsingKey(key string) bool {
	switch key {
	case "down", "j":
		c.moveSelection(+1, false)
	case "up", "k":
		c.moveSelection(-1, false)
	case "shift+down", "J":
		c.moveSelection(+1, true)
	case "shift+up", "K":
		c.moveSelection(-1, true)
	case "left":
		c.store.MoveFocus(-1)
	case "right":
		c.store.MoveFocus(+1)
	case "home":
		c.store.FocusFirst()
	case "end":
		c.store.FocusLast()
	case "ctrl+home":
		c.jumpToRow(0)
	case "ctrl+end":
		c.jumpToRow(c.grid.RowCount() - 1)
	case "pgdown":
		c.moveSelectionBy(c.pageSize())
	case "pgup":
		c.moveSelectionBy(-c.pageSize())
	case "esc":
		c.store.ClearSelection()
		c.publishSelection()
	case "delete", "backspace":
		c.requestClearCell()
	case "ctrl+a":
		c.markAllLoaded()
	case "ctrl+r":
		c.invertMarks()
	case " ":
		c.bus.Publish(event.DetailToggle, nil)
	case "]":
		c.bus.Publish(event.DetailNavigate, event.DetailNavigatePayload{Delta: +1})
	case "[":
		c.bus.Publish(event.DetailNavigate, event.DetailNavigatePayload{Delta: -1})
	case "enter":
		c.activateCell()
	default:
		return c.maybeStartTypedEdit(key)
	}
	return true
}

func (c *Controller) pageSize() int {
	if n := c.grid.ViewportRows(); n > 0 {
		return n
	}
	return 1
}

func (c *Controller) moveSelection(delta int, mark bool) {
	idx := c.store.MoveSelection(delta, c.grid.RowID)
	if idx < 0 {
		return
	}
	if mark {
		c.store.ToggleMark(c.grid.RowID(idx))
	}
	c.publishSelection()
}

func (c *Controller) moveSelectionBy(delta int) {
	if c.store.MoveSelection(delta, c.grid.RowID) >= 0 {
		c.publishSelection()
	}
}

func (c *Controller) jumpToRow(index int) {
	if c.store.JumpToRow(index, c.grid.RowID) >= 0 {
		c.publishSelection()
	}
}

func (c *Controller) publishSelection() {
	st := c.store.State()
	c.bus.Publish(event.SelectionChanged, event.SelectionChangedPayload{
		RowID:    st.SelectedRowID,
		RowIndex: st.SelectedRowIndex,
	})
}

// requestClearCell notifies collaborators to clear the focused cell's
// value. State is never mutated here.
func (c *Controller) requestClearCell() {
	st := c.store.State()
	col, ok := c.focusedColumn()
	if st.SelectedRowID == "" || !ok || !col.Editable {
		return
	}
	c.bus.Publish(event.ClearCell, event.ClearCellPayload{
		RowID:    st.SelectedRowID,
		FieldKey: col.FieldKey,
	})
}

func (c *Controller) markAllLoaded() {
	n := c.grid.RowCount()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, c.grid.RowID(i))
	}
	c.store.MarkAll(ids)
	c.bus.Publish(event.SelectAllLoaded, nil)
}

func (c *Controller) invertMarks() {
	n := c.grid.RowCount()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, c.grid.RowID(i))
	}
	c.store.InvertMarks(ids)
	c.bus.Publish(event.InvertSelection, nil)
}

func (c *Controller) focusedColumn() (layout.ComputedColumn, bool) {
	cols := c.grid.Columns()
	idx := c.store.State().FocusedColumn
	if idx < 0 || idx >= len(cols) {
		return layout.ComputedColumn{}, false
	}
	return cols[idx], true
}

// activateCell: Enter starts editing on a focused editable cell;
// otherwise it toggles (here: drops) the selection, matching the
// click-to-toggle behavior of the row itself.
func (c *Controller) activateCell() {
	st := c.store.State()
	if st.SelectedRowID == "" {
		return
	}
	col, ok := c.focusedColumn()
	if ok && col.Editable {
		c.startEdit(st.SelectedRowID, col.FieldKey, "")
		return
	}
	c.store.SelectRow(st.SelectedRowID, st.SelectedRowIndex)
	c.publishSelection()
}

// maybeStartTypedEdit starts editing when a single printable character
// is typed with an editable cell focused, seeding the editor with it.
func (c *Controller) maybeStartTypedEdit(key string) bool {
	if len([]rune(key)) != 1 {
		return false
	}
	st := c.store.State()
	col, ok := c.focusedColumn()
	if st.SelectedRowID == "" || !ok || !col.Editable {
		return false
	}
	c.startEdit(st.SelectedRowID, col.FieldKey, key)
	return true
}

func (c *Controller) startEdit(rowID, fieldKey, initial string) {
	cell := EditingCell{RowID: rowID, FieldKey: fieldKey, InitialChars: initial}
	c.mode = ModeEditing
	c.editing = &cell
	c.sink.OpenEditor(cell)
}

// advanceEdit commits the open editor and, after the configured delay,
// opens the next (or previous) editable cell, scanning through the
// row's remaining columns and wrapping to the neighboring row. When no
// further editable cell exists, editing simply ends.
func (c *Controller) advanceEdit(dir int) {
	c.sink.CloseEditor(true)

	st := c.store.State()
	rowIdx, colIdx := st.SelectedRowIndex, st.FocusedColumn
	nextRow, nextCol, ok := c.nextEditable(rowIdx, colIdx, dir)

	if !ok {
		c.EndEditing()
		return
	}

	c.schedule(c.TabAdvanceDelay, func() {
		// the machine may have left editing mode while the delay ran
		if c.mode != ModeEditing {
			return
		}
		if nextRow != rowIdx {
			c.store.JumpToRow(nextRow, c.grid.RowID)
			c.publishSelection()
		}
		c.store.FocusColumn(nextCol)
		cell := EditingCell{RowID: c.grid.RowID(nextRow), FieldKey: c.grid.Columns()[nextCol].FieldKey}
		c.editing = &cell
		c.sink.OpenEditor(cell)
	})
}

// nextEditable scans for the next editable column in tab order:
// across the current row first, then wrapping to the first/last
// editable column of the following/preceding rows.
func (c *Controller) nextEditable(rowIdx, colIdx, dir int) (row, col int, ok bool) {
	cols := c.grid.Columns()
	rows := c.grid.RowCount()
	if len(cols) == 0 || rows == 0 || rowIdx < 0 {
		return 0, 0, false
	}

	r, ci := rowIdx, colIdx+dir
	for {
		if ci < 0 || ci >= len(cols) {
			r += dir
			if r < 0 || r >= rows {
				return 0, 0, false
			}
			if dir > 0 {
				ci = 0
			} else {
				ci = len(cols) - 1
			}
			continue
		}
		if cols[ci].Editable && cols[ci].Tier == layout.DemotionNormal {
			return r, ci, true
		}
		ci += dir
	}
}

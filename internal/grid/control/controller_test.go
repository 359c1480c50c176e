package control

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridline-labs/gridline/internal/grid/event"
	"github.com/gridline-labs/gridline/internal/grid/layout"
	"github.com/gridline-labs/gridline/internal/grid/nav"
)

// fakeGrid implements GridContext over a fixed column/row shape.
type fakeGrid struct {
	cols     []layout.ComputedColumn
	rows     int
	viewport int
}

func (g *fakeGrid) Columns() []layout.ComputedColumn { return g.cols }
func (g *fakeGrid) RowID(i int) string               { return fmt.Sprintf("row-%d", i) }
func (g *fakeGrid) RowCount() int                    { return g.rows }
func (g *fakeGrid) ViewportRows() int                { return g.viewport }

// fakeSink records edit lifecycle calls.
type fakeSink struct {
	opened []EditingCell
	closed []bool // commit flag per close
}

func (s *fakeSink) OpenEditor(cell EditingCell) { s.opened = append(s.opened, cell) }
func (s *fakeSink) CloseEditor(commit bool)     { s.closed = append(s.closed, commit) }

type fixture struct {
	store *nav.Store
	bus   *event.Bus
	grid  *fakeGrid
	sink  *fakeSink
	ctrl  *Controller
}

// newFixture builds a three-column grid:
// [name(editable), status(non-editable), email(editable)].
func newFixture(t *testing.T, rows int) *fixture {
	t.Helper()
	g := &fakeGrid{
		cols: []layout.ComputedColumn{
			{FieldKey: "name", Editable: true, Tier: layout.DemotionNormal},
			{FieldKey: "status", Editable: false, Tier: layout.DemotionNormal},
			{FieldKey: "email", Editable: true, Tier: layout.DemotionNormal},
		},
		rows:     rows,
		viewport: 8,
	}
	store := nav.NewStore()
	store.SetBounds(rows, len(g.cols))
	sink := &fakeSink{}
	ctrl := New(store, event.New(), g, sink, 0)
	// synchronous scheduling keeps tests deterministic
	ctrl.SetScheduler(func(_ time.Duration, fn func()) { fn() })
	return &fixture{store: store, bus: ctrl.bus, grid: g, sink: sink, ctrl: ctrl}
}

func (f *fixture) selectRow(idx int) {
	f.store.SelectRow(f.grid.RowID(idx), idx)
}

func TestBrowsing_MoveSelection(t *testing.T) {
	f := newFixture(t, 10)

	assert.True(t, f.ctrl.HandleKey("j"))
	assert.Equal(t, 0, f.store.State().SelectedRowIndex)

	f.ctrl.HandleKey("down")
	f.ctrl.HandleKey("down")
	assert.Equal(t, 2, f.store.State().SelectedRowIndex)

	f.ctrl.HandleKey("k")
	assert.Equal(t, 1, f.store.State().SelectedRowIndex)
}

func TestBrowsing_ShiftExtendAndMark(t *testing.T) {
	f := newFixture(t, 10)
	f.selectRow(0)

	f.ctrl.HandleKey("shift+down")
	assert.Equal(t, 1, f.store.State().SelectedRowIndex)
	assert.True(t, f.store.Marked("row-1"))

	f.ctrl.HandleKey("J")
	assert.True(t, f.store.Marked("row-2"))
	assert.Equal(t, 2, f.store.MarkedCount())
}

func TestBrowsing_PageDownClampsToLastRow(t *testing.T) {
	f := newFixture(t, 10)
	f.selectRow(5)

	// index 5, 10 rows, 8 visible -> min(9, 5+8) = 9
	f.ctrl.HandleKey("pgdown")
	assert.Equal(t, 9, f.store.State().SelectedRowIndex)

	f.ctrl.HandleKey("pgdown")
	assert.Equal(t, 9, f.store.State().SelectedRowIndex)
}

func TestBrowsing_CtrlHomeEndJumpLoadedRows(t *testing.T) {
	f := newFixture(t, 25)
	f.selectRow(10)

	f.ctrl.HandleKey("ctrl+end")
	assert.Equal(t, 24, f.store.State().SelectedRowIndex)

	f.ctrl.HandleKey("ctrl+home")
	assert.Equal(t, 0, f.store.State().SelectedRowIndex)
}

func TestBrowsing_FocusBounds(t *testing.T) {
	f := newFixture(t, 5)

	f.ctrl.HandleKey("left")
	assert.Equal(t, 0, f.store.State().FocusedColumn)

	for i := 0; i < 10; i++ {
		f.ctrl.HandleKey("right")
	}
	assert.Equal(t, 2, f.store.State().FocusedColumn)

	f.ctrl.HandleKey("home")
	assert.Equal(t, 0, f.store.State().FocusedColumn)
	f.ctrl.HandleKey("end")
	assert.Equal(t, 2, f.store.State().FocusedColumn)
}

func TestBrowsing_EscapeClearsSelection(t *testing.T) {
	f := newFixture(t, 5)
	f.selectRow(2)

	f.ctrl.HandleKey("esc")
	assert.Equal(t, -1, f.store.State().SelectedRowIndex)
	assert.Empty(t, f.store.State().SelectedRowID)
}

func TestBrowsing_DeleteEmitsClearCell(t *testing.T) {
	f := newFixture(t, 5)
	ch := f.bus.Subscribe()
	defer f.bus.Unsubscribe(ch)

	f.selectRow(1)
	f.ctrl.HandleKey("delete")

	n := <-ch
	require.Equal(t, event.ClearCell, n.Name)
	payload := n.Payload.(event.ClearCellPayload)
	assert.Equal(t, "row-1", payload.RowID)
	assert.Equal(t, "name", payload.FieldKey)
}

func TestBrowsing_DeleteIgnoredOnNonEditable(t *testing.T) {
	f := newFixture(t, 5)
	ch := f.bus.Subscribe()
	defer f.bus.Unsubscribe(ch)

	f.selectRow(1)
	f.store.FocusColumn(1) // status, non-editable
	f.ctrl.HandleKey("delete")

	select {
	case n := <-ch:
		t.Fatalf("unexpected notification %q", n.Name)
	default:
	}
}

func TestBrowsing_CtrlAMarksAllLoaded(t *testing.T) {
	f := newFixture(t, 6)
	f.ctrl.HandleKey("ctrl+a")
	assert.Equal(t, 6, f.store.MarkedCount())
}

func TestBrowsing_CtrlRInvertsMarks(t *testing.T) {
	f := newFixture(t, 4)
	ch := f.bus.Subscribe()
	defer f.bus.Unsubscribe(ch)

	f.store.ToggleMark("row-0")
	f.store.ToggleMark("row-2")
	f.ctrl.HandleKey("ctrl+r")

	assert.Equal(t, 2, f.store.MarkedCount())
	assert.False(t, f.store.Marked("row-0"))
	assert.True(t, f.store.Marked("row-1"))
	assert.True(t, f.store.Marked("row-3"))

	n := <-ch
	assert.Equal(t, event.InvertSelection, n.Name)
}

func TestBrowsing_EnterStartsEditOnEditableCell(t *testing.T) {
	f := newFixture(t, 5)
	f.selectRow(2)

	f.ctrl.HandleKey("enter")
	require.Equal(t, ModeEditing, f.ctrl.Mode())
	require.Len(t, f.sink.opened, 1)
	assert.Equal(t, EditingCell{RowID: "row-2", FieldKey: "name"}, f.sink.opened[0])
}

func TestBrowsing_EnterOnNonEditableTogglesSelection(t *testing.T) {
	f := newFixture(t, 5)
	f.selectRow(2)
	f.store.FocusColumn(1)

	f.ctrl.HandleKey("enter")
	assert.Equal(t, ModeBrowsing, f.ctrl.Mode())
	assert.Equal(t, -1, f.store.State().SelectedRowIndex)
}

func TestBrowsing_TypedCharSeedsEditor(t *testing.T) {
	f := newFixture(t, 5)
	f.selectRow(0)
	f.store.FocusColumn(2)

	assert.True(t, f.ctrl.HandleKey("x"))
	require.Len(t, f.sink.opened, 1)
	assert.Equal(t, "x", f.sink.opened[0].InitialChars)
	assert.Equal(t, "email", f.sink.opened[0].FieldKey)
}

func TestBrowsing_TypedCharIgnoredWithoutSelection(t *testing.T) {
	f := newFixture(t, 5)
	assert.False(t, f.ctrl.HandleKey("x"))
	assert.Equal(t, ModeBrowsing, f.ctrl.Mode())
}

func TestEditing_NonTabKeysPassThrough(t *testing.T) {
	f := newFixture(t, 5)
	f.selectRow(0)
	f.ctrl.HandleKey("enter")
	require.Equal(t, ModeEditing, f.ctrl.Mode())

	// the inline editor owns these
	assert.False(t, f.ctrl.HandleKey("a"))
	assert.False(t, f.ctrl.HandleKey("down"))
	assert.False(t, f.ctrl.HandleKey("esc"))
	assert.Equal(t, ModeEditing, f.ctrl.Mode())
}

func TestEditing_TabSkipsNonEditableColumn(t *testing.T) {
	f := newFixture(t, 2)
	f.selectRow(0)
	f.ctrl.HandleKey("enter") // editing name on row-0

	f.ctrl.HandleKey("tab")
	require.Equal(t, ModeEditing, f.ctrl.Mode())
	require.Len(t, f.sink.opened, 2)
	// status is skipped; email is next
	assert.Equal(t, "email", f.sink.opened[1].FieldKey)
	assert.Equal(t, "row-0", f.sink.opened[1].RowID)
	assert.Equal(t, []bool{true}, f.sink.closed, "tab commits the previous editor")
}

func TestEditing_TabWrapsToNextRow(t *testing.T) {
	f := newFixture(t, 2)
	f.selectRow(0)
	f.store.FocusColumn(2)
	f.ctrl.HandleKey("enter") // editing email on row-0

	f.ctrl.HandleKey("tab")
	require.Len(t, f.sink.opened, 2)
	assert.Equal(t, "name", f.sink.opened[1].FieldKey)
	assert.Equal(t, "row-1", f.sink.opened[1].RowID)
	assert.Equal(t, 1, f.store.State().SelectedRowIndex)
}

func TestEditing_TabFromLastCellEndsEditing(t *testing.T) {
	f := newFixture(t, 1)
	f.selectRow(0)
	f.store.FocusColumn(2)
	f.ctrl.HandleKey("enter") // editing email on the only row

	f.ctrl.HandleKey("tab")
	assert.Equal(t, ModeBrowsing, f.ctrl.Mode())
	assert.Nil(t, f.ctrl.Editing())
	assert.Len(t, f.sink.opened, 1, "no further editor opened")
}

func TestEditing_ShiftTabScansBackward(t *testing.T) {
	f := newFixture(t, 2)
	f.store.JumpToRow(1, f.grid.RowID)
	f.ctrl.HandleKey("enter") // editing name on row-1

	f.ctrl.HandleKey("shift+tab")
	require.Len(t, f.sink.opened, 2)
	assert.Equal(t, "email", f.sink.opened[1].FieldKey)
	assert.Equal(t, "row-0", f.sink.opened[1].RowID)
}

func TestExternalFocusSuppressesHandling(t *testing.T) {
	f := newFixture(t, 5)
	f.ctrl.SetExternalFocus(true)

	assert.False(t, f.ctrl.HandleKey("j"))
	assert.Equal(t, -1, f.store.State().SelectedRowIndex)

	f.ctrl.SetExternalFocus(false)
	assert.True(t, f.ctrl.HandleKey("j"))
}

func TestSpaceTogglesDetailPanel(t *testing.T) {
	f := newFixture(t, 5)
	ch := f.bus.Subscribe()
	defer f.bus.Unsubscribe(ch)

	f.ctrl.HandleKey(" ")
	n := <-ch
	assert.Equal(t, event.DetailToggle, n.Name)
}

// Package render is the interactive grid surface: a bubbletea model
// that windows a virtualized row buffer, drives the layout pipeline on
// every relevant change, hosts the inline cell editor, and persists
// column-resize corrections after a debounce. It implements the
// controller's GridContext and EditSink collaborator interfaces.
package render

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gridline-labs/gridline/internal/grid"
	"github.com/gridline-labs/gridline/internal/grid/control"
	"github.com/gridline-labs/gridline/internal/grid/event"
	"github.com/gridline-labs/gridline/internal/grid/layout"
	"github.com/gridline-labs/gridline/internal/grid/nav"
	"github.com/gridline-labs/gridline/internal/schema"
)

// rowHeight is fixed: one terminal line per record.
const rowHeight = 1

// Deps are the model's collaborators.
type Deps struct {
	Source grid.RowSource
	Views  grid.ViewStore
	Cells  grid.CellWriter
	Fields *schema.Registry
	Logger *slog.Logger
}

// Model is the grid's bubbletea model.
type Model struct {
	ctx    context.Context
	logger *slog.Logger

	source grid.RowSource
	views  grid.ViewStore
	cells  grid.CellWriter
	fields *schema.Registry

	view     grid.ViewConfig
	override *grid.LayoutOverride

	nav    *nav.Store
	bus    *event.Bus
	ctrl   *control.Controller
	events chan event.Notification

	cache  layout.Cache
	tuning layout.Tuning
	opts   Options
	styles Styles

	rows        []grid.Row
	rowsVersion int64
	total       int
	hasMore     bool
	fetching    bool

	width, height int
	scroll        int // first rendered row ordinal

	editor  textinput.Model
	editing bool

	// stagedCommit holds the persistence command a CloseEditor(commit)
	// produced while the controller ran, until the loop picks it up.
	stagedCommit tea.Cmd

	search    textinput.Model
	searching bool

	// resizeSeq stamps the pending debounced override write; a resize
	// within the window bumps it, orphaning the older timer.
	resizeSeq       int
	overridePending bool

	// pendingAdvance holds the controller's deferred tab-advance until
	// the event loop schedules it, keeping all mutation on one thread.
	pendingAdvance func()
	pendingDelay   time.Duration

	err      error
	quitting bool
}

// New builds a grid model for one view.
func New(ctx context.Context, deps Deps, view grid.ViewConfig, tuning layout.Tuning, opts Options) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Model{
		ctx:    ctx,
		logger: logger,
		source: deps.Source,
		views:  deps.Views,
		cells:  deps.Cells,
		fields: deps.Fields,
		view:   view,
		nav:    nav.NewStore(),
		bus:    event.New(),
		tuning: tuning,
		opts:   opts,
		styles: DefaultStyles(),
	}
	m.nav.SetView(view.ID)
	if view.SortField != "" {
		dir := grid.SortAsc
		if view.SortDesc {
			dir = grid.SortDesc
		}
		m.nav.SetSort(view.SortField, dir)
	}

	m.editor = textinput.New()
	m.editor.Prompt = ""
	m.editor.CharLimit = 256

	m.search = textinput.New()
	m.search.Prompt = "/"
	m.search.CharLimit = 128

	m.ctrl = control.New(m.nav, m.bus, m, m, opts.TabAdvanceDelay)
	m.ctrl.SetScheduler(func(d time.Duration, fn func()) {
		m.pendingAdvance = fn
		m.pendingDelay = d
	})

	m.events = m.bus.Subscribe()
	return m
}

// SetOverride installs the persisted layout override for the view's
// current display tier. Call before the program starts.
func (m *Model) SetOverride(o *grid.LayoutOverride) { m.override = o }

// Bus exposes the notification bus so sibling surfaces can subscribe.
func (m *Model) Bus() *event.Bus { return m.bus }

// Nav exposes the navigation store for read-only inspection.
func (m *Model) Nav() *nav.Store { return m.nav }

// messages

type pageMsg struct {
	page    grid.Page
	offset  int
	replace bool
	err     error
}

type advanceEditMsg struct{}

type persistOverrideMsg struct{ seq int }

type overrideSavedMsg struct{ err error }

type cellSavedMsg struct {
	rowID, fieldKey string
	err             error
}

type busMsg struct {
	n  event.Notification
	ok bool
}

// Init loads the first page and starts draining the bus.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(0, true), m.waitForBus())
}

func (m *Model) waitForBus() tea.Cmd {
	return func() tea.Msg {
		n, ok := <-m.events
		return busMsg{n: n, ok: ok}
	}
}

func (m *Model) fetchCmd(offset int, replace bool) tea.Cmd {
	st := m.nav.State()
	q := grid.Query{
		ViewID:    st.ViewID,
		SortField: st.SortField,
		SortDir:   st.SortDir,
		Search:    st.Search,
		Filters:   st.Filters,
		Offset:    offset,
		Limit:     m.opts.PageSize,
	}
	m.fetching = true
	return func() tea.Msg {
		page, err := m.source.FetchPage(m.ctx, q)
		return pageMsg{page: page, offset: offset, replace: replace, err: err}
	}
}

// refetch resets the buffer and loads page zero for the current query.
func (m *Model) refetch() tea.Cmd {
	m.scroll = 0
	return m.fetchCmd(0, true)
}

// Update is the event loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pageMsg:
		return m.handlePage(msg)

	case advanceEditMsg:
		if fn := m.pendingAdvance; fn != nil {
			m.pendingAdvance = nil
			fn()
		}
		return m, nil

	case persistOverrideMsg:
		// a later resize superseded this timer
		if msg.seq != m.resizeSeq || !m.overridePending {
			return m, nil
		}
		m.overridePending = false
		return m, m.saveOverrideCmd()

	case overrideSavedMsg:
		if msg.err != nil {
			m.logger.Error("failed to persist layout override", "error", msg.err)
		}
		return m, nil

	case cellSavedMsg:
		if msg.err != nil {
			// optimistic display state stays; surface the failure only
			m.logger.Error("failed to persist cell edit",
				"row", msg.rowID, "field", msg.fieldKey, "error", msg.err)
			m.err = msg.err
		}
		return m, nil

	case busMsg:
		if !msg.ok {
			return m, nil
		}
		cmd := m.handleNotification(msg.n)
		return m, tea.Batch(cmd, m.waitForBus())
	}
	return m, nil
}

func (m *Model) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	m.fetching = false
	if msg.err != nil {
		m.logger.Error("failed to fetch page", "offset", msg.offset, "error", msg.err)
		m.err = msg.err
		return m, nil
	}
	m.err = nil
	if msg.replace {
		m.rows = msg.page.Rows
	} else {
		m.rows = append(m.rows, msg.page.Rows...)
	}
	m.rowsVersion++
	m.total = msg.page.Total
	m.hasMore = msg.page.HasMore
	m.syncBounds()
	m.clampScroll()
	return m, nil
}

// syncBounds keeps the nav store's clamps in step with loaded rows and
// the current layout's visible column count.
func (m *Model) syncBounds() {
	m.nav.SetBounds(len(m.rows), len(m.Columns()))
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.searching {
		return m.handleSearchKey(msg, key)
	}

	// global quits stay ahead of the controller
	if !m.editing && (key == "q" || key == "ctrl+c") {
		m.quitting = true
		// a pending debounced write is dropped, not flushed
		m.overridePending = false
		return m, tea.Quit
	}

	if m.editing {
		if m.ctrl.HandleKey(key) {
			return m, m.schedulePendingAdvance()
		}
		return m.handleEditorKey(msg, key)
	}

	switch key {
	case "/":
		m.searching = true
		m.search.SetValue(m.nav.State().Search)
		m.search.Focus()
		m.ctrl.SetExternalFocus(true)
		return m, textinput.Blink
	case "<":
		return m, m.resizeFocused(-1)
	case ">":
		return m, m.resizeFocused(+1)
	case "s":
		return m, m.cycleSort()
	}

	if m.ctrl.HandleKey(key) {
		m.followSelection()
		return m, tea.Batch(m.schedulePendingAdvance(), m.maybeFetchNext())
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.ctrl.SetExternalFocus(false)
		m.nav.SetSearch(m.search.Value())
		return m, m.refetch()
	case "esc":
		m.searching = false
		m.search.Blur()
		m.ctrl.SetExternalFocus(false)
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleEditorKey(msg tea.KeyMsg, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		m.CloseEditor(true)
		m.ctrl.EndEditing()
		return m, m.pendingCommit()
	case "esc":
		m.CloseEditor(false)
		m.ctrl.EndEditing()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// schedulePendingAdvance turns the controller's deferred tab-advance
// request into an event-loop message, so the advance mutates state on
// the Update goroutine only.
func (m *Model) schedulePendingAdvance() tea.Cmd {
	if m.pendingAdvance == nil {
		return m.pendingCommit()
	}
	d := m.pendingDelay
	commit := m.pendingCommit()
	if d <= 0 {
		d = time.Millisecond
	}
	return tea.Batch(commit, tea.Tick(d, func(time.Time) tea.Msg { return advanceEditMsg{} }))
}

// pendingCommit collects the persistence command a CloseEditor(commit)
// call staged while the controller ran.
func (m *Model) pendingCommit() tea.Cmd {
	if m.stagedCommit == nil {
		return nil
	}
	cmd := m.stagedCommit
	m.stagedCommit = nil
	return cmd
}

// cycleSort toggles ascending/descending sort on the focused column.
func (m *Model) cycleSort() tea.Cmd {
	cols := m.Columns()
	idx := m.nav.State().FocusedColumn
	if idx < 0 || idx >= len(cols) || !cols[idx].Sortable {
		return nil
	}
	st := m.nav.State()
	dir := grid.SortAsc
	if st.SortField == cols[idx].FieldKey && st.SortDir == grid.SortAsc {
		dir = grid.SortDesc
	}
	m.nav.SetSort(cols[idx].FieldKey, dir)
	return m.refetch()
}

// followSelection scrolls the window so the selected row stays inside
// the viewport.
func (m *Model) followSelection() {
	idx := m.nav.State().SelectedRowIndex
	if idx < 0 {
		return
	}
	vp := m.ViewportRows()
	if vp <= 0 {
		return
	}
	if idx < m.scroll {
		m.scroll = idx
	} else if idx >= m.scroll+vp {
		m.scroll = idx - vp + 1
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	maxScroll := len(m.rows) - m.ViewportRows()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// maybeFetchNext requests the next page once when the selection nears
// the end of the loaded buffer. The margin covers the fetch threshold
// plus the lookahead buffer, so the rows beyond the window are already
// loaded when the selection reaches them. The in-flight flag makes the
// trigger single-shot per crossing.
func (m *Model) maybeFetchNext() tea.Cmd {
	if m.fetching || !m.hasMore {
		return nil
	}
	idx := m.nav.State().SelectedRowIndex
	if idx < 0 {
		idx = m.scroll
	}
	margin := m.opts.FetchThresholdRows + m.opts.LookaheadRows
	if idx+m.ViewportRows()+margin < len(m.rows) {
		return nil
	}
	return m.fetchCmd(len(m.rows), false)
}

// resizeFocused grows or shrinks the focused column by one cell,
// recording the new width as an override percentage and debouncing its
// persistence.
func (m *Model) resizeFocused(delta int) tea.Cmd {
	cols := m.Columns()
	idx := m.nav.State().FocusedColumn
	if idx < 0 || idx >= len(cols) {
		return nil
	}
	col := cols[idx]
	lay := m.layout()
	if lay.Profile.EffectiveWidth <= 0 {
		return nil
	}

	w := col.Width + delta
	if w < 1 {
		w = 1
	}
	if w > lay.Profile.EffectiveWidth {
		w = lay.Profile.EffectiveWidth
	}
	pct := float64(w) / float64(lay.Profile.EffectiveWidth)

	if m.override == nil {
		m.override = &grid.LayoutOverride{
			ViewID: m.view.ID,
			Tier:   string(lay.Profile.Tier),
		}
	}
	if m.override.Columns == nil {
		m.override.Columns = make(map[string]grid.ColumnOverride)
	}
	o := m.override.Columns[col.FieldKey]
	o.WidthPct = pct
	m.override.Columns[col.FieldKey] = o

	// cancel-and-reschedule: only the newest timer's seq survives
	m.resizeSeq++
	m.overridePending = true
	seq := m.resizeSeq
	return tea.Tick(m.opts.ResizeDebounce, func(time.Time) tea.Msg {
		return persistOverrideMsg{seq: seq}
	})
}

func (m *Model) saveOverrideCmd() tea.Cmd {
	if m.override == nil {
		return nil
	}
	o := *m.override
	return func() tea.Msg {
		return overrideSavedMsg{err: m.views.SaveOverride(m.ctx, &o)}
	}
}

// handleNotification reacts to bus traffic the renderer itself owns;
// everything else is for sibling surfaces.
func (m *Model) handleNotification(n event.Notification) tea.Cmd {
	switch n.Name {
	case event.ClearCell:
		p, ok := n.Payload.(event.ClearCellPayload)
		if !ok {
			return nil
		}
		m.setRowValue(p.RowID, p.FieldKey, "")
		return func() tea.Msg {
			return cellSavedMsg{rowID: p.RowID, fieldKey: p.FieldKey,
				err: m.cells.UpdateCell(m.ctx, p.RowID, p.FieldKey, "")}
		}
	case event.SelectionChanged:
		m.followSelection()
	}
	return nil
}

// setRowValue applies an optimistic local write to the loaded buffer.
func (m *Model) setRowValue(rowID, fieldKey, value string) {
	for i := range m.rows {
		if m.rows[i].ID == rowID {
			if m.rows[i].Values == nil {
				m.rows[i].Values = make(map[string]string)
			}
			m.rows[i].Values[fieldKey] = value
			m.rowsVersion++
			return
		}
	}
}

// layout recomputes (or reuses) the current layout snapshot.
func (m *Model) layout() layout.ComputedLayout {
	return m.cache.Compute(layout.Input{
		TotalWidth:    m.width,
		ChromeWidth:   m.chromeWidth(),
		Rows:          m.rows,
		RowsVersion:   m.rowsVersion,
		Columns:       m.view.Columns,
		Fields:        m.fields,
		Override:      m.override,
		AutoSize:      m.view.AutoSize,
		DemoteColumns: true,
		Density:       m.view.Density,
		Tuning:        m.tuning,
	})
}

// chromeWidth accounts for the fixed left gutter (mark and selection
// indicators) plus the separator space in front of every column. The
// count uses the configured columns, not the visible ones, so the
// budget holds even when nothing gets hidden.
func (m *Model) chromeWidth() int {
	n := len(m.view.Columns)
	if n < 1 {
		n = 1
	}
	return 2 + n
}

// GridContext

// Columns returns the visible computed columns in display order.
func (m *Model) Columns() []layout.ComputedColumn {
	return m.layout().Visible()
}

// RowID maps a loaded-row ordinal to its record id.
func (m *Model) RowID(index int) string {
	if index < 0 || index >= len(m.rows) {
		return ""
	}
	return m.rows[index].ID
}

// RowCount is the number of loaded rows.
func (m *Model) RowCount() int { return len(m.rows) }

// ViewportRows is how many records fit beneath the chrome.
func (m *Model) ViewportRows() int {
	chrome := 3 // header, separator, status
	if m.layout().Density == string(grid.DensityCompact) {
		chrome = 2 // compact drops the separator
	}
	if m.searching {
		chrome++
	}
	n := (m.height - chrome) / rowHeight
	if n < 0 {
		n = 0
	}
	return n
}

// EditSink

// OpenEditor mounts the inline editor over the cell, seeded with the
// typed character or the cell's current value.
func (m *Model) OpenEditor(cell control.EditingCell) {
	value := cell.InitialChars
	if value == "" {
		value = m.cellValue(cell.RowID, cell.FieldKey)
	}
	m.editor.SetValue(value)
	m.editor.CursorEnd()
	if cols := m.Columns(); len(cols) > 0 {
		idx := m.nav.State().FocusedColumn
		if idx >= 0 && idx < len(cols) {
			m.editor.Width = cols[idx].Width
		}
	}
	m.editor.Focus()
	m.editing = true
}

// CloseEditor unmounts the editor; on commit it applies the value
// optimistically and stages the persistence write.
func (m *Model) CloseEditor(commit bool) {
	if !m.editing {
		return
	}
	m.editing = false
	m.editor.Blur()
	if !commit {
		return
	}
	m.stagedCommit = m.commitEditCmd()
}

// commitEditCmd applies the editor value to the local buffer and
// returns the persistence command.
func (m *Model) commitEditCmd() tea.Cmd {
	cell := m.ctrl.Editing()
	if cell == nil {
		// the controller already left editing; fall back to selection
		st := m.nav.State()
		cols := m.Columns()
		if st.SelectedRowID == "" || st.FocusedColumn < 0 || st.FocusedColumn >= len(cols) {
			return nil
		}
		cell = &control.EditingCell{RowID: st.SelectedRowID, FieldKey: cols[st.FocusedColumn].FieldKey}
	}
	rowID, fieldKey := cell.RowID, cell.FieldKey
	value := m.editor.Value()
	m.setRowValue(rowID, fieldKey, value)
	return func() tea.Msg {
		return cellSavedMsg{rowID: rowID, fieldKey: fieldKey,
			err: m.cells.UpdateCell(m.ctx, rowID, fieldKey, value)}
	}
}

func (m *Model) cellValue(rowID, fieldKey string) string {
	for _, r := range m.rows {
		if r.ID == rowID {
			return r.Get(fieldKey)
		}
	}
	return ""
}

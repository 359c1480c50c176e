// Package grid defines the shared data model of the grid core: rows,
// view configuration, layout overrides, and the collaborator interfaces
// (row source, view store) the renderer consumes. Implementations live
// in internal/store; the grid core never talks to SQL directly.
package grid

import "context"

// Row is one loaded record. Values are display strings keyed by field
// key; a missing key renders as empty.
type Row struct {
	ID     string
	Values map[string]string
}

// Get returns the row's value for a field key, or "".
func (r Row) Get(key string) string {
	return r.Values[key]
}

// ViewColumn is a view's declared column. Order is display order.
type ViewColumn struct {
	FieldKey string `json:"field_key"`
	Label    string `json:"label,omitempty"` // optional label override
	Width    int    `json:"width,omitempty"` // explicit static width in cells, 0 = default
}

// Density controls row chrome in the renderer.
type Density string

const (
	DensityComfortable Density = "comfortable"
	DensityCompact     Density = "compact"
)

// ColumnOverride is a user-authored correction for one column.
// Zero values mean "no override" for that aspect.
type ColumnOverride struct {
	WidthPct float64 `json:"width_pct,omitempty"` // share of effective width, 0 < pct <= 1
	Align    string  `json:"align,omitempty"`     // "left" | "center" | "right"
}

// HasWidth reports whether the override pins a width percentage.
func (o ColumnOverride) HasWidth() bool { return o.WidthPct > 0 }

// HasAlign reports whether the override pins an alignment.
func (o ColumnOverride) HasAlign() bool { return o.Align != "" }

// LayoutOverride is the persisted per-view, per-display-tier record of
// user corrections. It always outranks computed heuristics.
type LayoutOverride struct {
	ViewID  string                    `json:"view_id"`
	Tier    string                    `json:"tier"`
	Columns map[string]ColumnOverride `json:"columns,omitempty"`
	Density Density                   `json:"density,omitempty"`
}

// Column returns the override for a field key, if any.
func (l *LayoutOverride) Column(key string) (ColumnOverride, bool) {
	if l == nil || l.Columns == nil {
		return ColumnOverride{}, false
	}
	o, ok := l.Columns[key]
	return o, ok
}

// ViewConfig is a persisted view: its columns, default sort and density.
type ViewConfig struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Columns   []ViewColumn `json:"columns"`
	SortField string       `json:"sort_field,omitempty"`
	SortDesc  bool         `json:"sort_desc"`
	Density   Density      `json:"density,omitempty"`
	AutoSize  bool         `json:"auto_size"`
}

// SortDirection for queries.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Query describes one page request against the row source.
type Query struct {
	ViewID    string
	SortField string
	SortDir   SortDirection
	Search    string            // free-text, case-folded match over all fields
	Filters   map[string]string // fieldKey → exact value
	Offset    int
	Limit     int
}

// Page is the row source's answer to a Query.
type Page struct {
	Rows    []Row
	Total   int
	HasMore bool
}

// RowSource is the paginated data-fetching collaborator.
type RowSource interface {
	FetchPage(ctx context.Context, q Query) (Page, error)
}

// ViewStore is the view-configuration persistence collaborator.
type ViewStore interface {
	GetView(ctx context.Context, id string) (*ViewConfig, error)
	UpdateColumns(ctx context.Context, viewID string, cols []ViewColumn) error
	GetOverride(ctx context.Context, viewID, tier string) (*LayoutOverride, error)
	SaveOverride(ctx context.Context, o *LayoutOverride) error
}

// CellWriter persists inline edits.
type CellWriter interface {
	UpdateCell(ctx context.Context, recordID, fieldKey, value string) error
}

package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridline-labs/gridline/internal/grid"
	"github.com/gridline-labs/gridline/internal/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	require.NoError(t, s.Open(":memory:"))
	require.NoError(t, s.InitSchema())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFields_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	def := schema.FieldDefinition{
		Key: "email", Label: "Email", Type: schema.TypeEmail,
		Sortable: true, Editable: true, Identifier: true,
	}
	require.NoError(t, s.UpsertField(ctx, def))

	// upsert replaces
	def.Label = "E-mail"
	require.NoError(t, s.UpsertField(ctx, def))

	defs, err := s.ListFields(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "E-mail", defs[0].Label)

	reg, err := s.LoadRegistry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "email", reg.Identifier())
}

func TestViews_CreateGetUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	v, err := s.CreateView(ctx, grid.ViewConfig{
		Name:      "people",
		Columns:   []grid.ViewColumn{{FieldKey: "name"}, {FieldKey: "email", Width: 30}},
		SortField: "name",
		AutoSize:  true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, v.ID)

	got, err := s.GetView(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "people", got.Name)
	require.Len(t, got.Columns, 2)
	assert.Equal(t, 30, got.Columns[1].Width)
	assert.True(t, got.AutoSize)

	byName, err := s.GetViewByName(ctx, "people")
	require.NoError(t, err)
	assert.Equal(t, v.ID, byName.ID)

	newCols := []grid.ViewColumn{{FieldKey: "email"}}
	require.NoError(t, s.UpdateColumns(ctx, v.ID, newCols))
	got, err = s.GetView(ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, got.Columns, 1)

	_, err = s.GetView(ctx, "nope")
	assert.ErrorIs(t, err, ErrViewNotFound)
	assert.ErrorIs(t, s.UpdateColumns(ctx, "nope", newCols), ErrViewNotFound)
}

func TestOverrides_UpsertAndAbsence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	v, err := s.CreateView(ctx, grid.ViewConfig{Name: "v", Columns: []grid.ViewColumn{{FieldKey: "a"}}})
	require.NoError(t, err)

	// absence is not an error
	o, err := s.GetOverride(ctx, v.ID, "wide")
	require.NoError(t, err)
	assert.Nil(t, o)

	err = s.SaveOverride(ctx, &grid.LayoutOverride{
		ViewID:  v.ID,
		Tier:    "wide",
		Columns: map[string]grid.ColumnOverride{"a": {WidthPct: 0.3, Align: "right"}},
		Density: grid.DensityCompact,
	})
	require.NoError(t, err)

	// upsert replaces in place
	err = s.SaveOverride(ctx, &grid.LayoutOverride{
		ViewID:  v.ID,
		Tier:    "wide",
		Columns: map[string]grid.ColumnOverride{"a": {WidthPct: 0.5}},
	})
	require.NoError(t, err)

	o, err = s.GetOverride(ctx, v.ID, "wide")
	require.NoError(t, err)
	require.NotNil(t, o)
	co, ok := o.Column("a")
	require.True(t, ok)
	assert.InDelta(t, 0.5, co.WidthPct, 1e-9)
	assert.Empty(t, o.Density)
}

func insertRecords(t *testing.T, s *Store, n int) []string {
	t.Helper()
	ctx := context.Background()
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		status := "Active"
		if i%2 == 1 {
			status = "Churned"
		}
		id, err := s.InsertRecord(ctx, map[string]string{
			"name":   fmt.Sprintf("Person %02d", i),
			"status": status,
		})
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

func TestFetchPage_Pagination(t *testing.T) {
	s := openTestStore(t)
	insertRecords(t, s, 25)
	ctx := context.Background()

	q := grid.Query{Limit: 10}
	page, err := s.FetchPage(ctx, q)
	require.NoError(t, err)
	assert.Len(t, page.Rows, 10)
	assert.Equal(t, 25, page.Total)
	assert.True(t, page.HasMore)

	q.Offset = 20
	page, err = s.FetchPage(ctx, q)
	require.NoError(t, err)
	assert.Len(t, page.Rows, 5)
	assert.False(t, page.HasMore)
}

func TestFetchPage_SortOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"charlie", "Alice", "bob"} {
		_, err := s.InsertRecord(ctx, map[string]string{"name": name})
		require.NoError(t, err)
	}

	page, err := s.FetchPage(ctx, grid.Query{SortField: "name", SortDir: grid.SortAsc, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Rows, 3)
	assert.Equal(t, "Alice", page.Rows[0].Get("name"))
	assert.Equal(t, "bob", page.Rows[1].Get("name"))
	assert.Equal(t, "charlie", page.Rows[2].Get("name"))

	page, err = s.FetchPage(ctx, grid.Query{SortField: "name", SortDir: grid.SortDesc, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "charlie", page.Rows[0].Get("name"))
}

func TestFetchPage_SearchFoldsCase(t *testing.T) {
	s := openTestStore(t)
	insertRecords(t, s, 10)
	ctx := context.Background()

	page, err := s.FetchPage(ctx, grid.Query{Search: "person 03", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Person 03", page.Rows[0].Get("name"))
	assert.Equal(t, 1, page.Total)
}

func TestFetchPage_StructuredFilters(t *testing.T) {
	s := openTestStore(t)
	insertRecords(t, s, 10)
	ctx := context.Background()

	page, err := s.FetchPage(ctx, grid.Query{
		Filters: map[string]string{"status": "Churned"},
		Limit:   100,
	})
	require.NoError(t, err)
	assert.Len(t, page.Rows, 5)
	for _, r := range page.Rows {
		assert.Equal(t, "Churned", r.Get("status"))
	}
}

func TestUpdateCell(t *testing.T) {
	s := openTestStore(t)
	ids := insertRecords(t, s, 2)
	ctx := context.Background()

	require.NoError(t, s.UpdateCell(ctx, ids[0], "name", "Renamed"))

	page, err := s.FetchPage(ctx, grid.Query{Limit: 10})
	require.NoError(t, err)
	found := false
	for _, r := range page.Rows {
		if r.ID == ids[0] {
			found = true
			assert.Equal(t, "Renamed", r.Get("name"))
		}
	}
	assert.True(t, found)

	assert.ErrorIs(t, s.UpdateCell(ctx, "missing", "name", "x"), ErrRecordNotFound)
}

func TestSeed_PopulatesEverything(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx, 30))

	n, err := s.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	view, err := s.GetViewByName(ctx, "contacts")
	require.NoError(t, err)
	assert.NotEmpty(t, view.Columns)

	reg, err := s.LoadRegistry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "name", reg.Identifier())
	_, ok := reg.Lookup("status")
	assert.True(t, ok)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gridline-labs/gridline/internal/grid"
)

// ErrViewNotFound is returned when a view id or name resolves nothing.
var ErrViewNotFound = errors.New("view not found")

// CreateView persists a new view configuration and returns it with its
// generated id.
func (s *Store) CreateView(ctx context.Context, v grid.ViewConfig) (*grid.ViewConfig, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if v.ID == "" {
		v.ID = generateID()
	}
	cols, err := json.Marshal(v.Columns)
	if err != nil {
		return nil, fmt.Errorf("failed to encode view columns: %w", err)
	}
	if v.Density == "" {
		v.Density = grid.DensityComfortable
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO views (id, name, columns, sort_field, sort_desc, density, auto_size, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, string(cols), v.SortField, v.SortDesc, string(v.Density), v.AutoSize, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create view %s: %w", v.Name, err)
	}
	return &v, nil
}

// GetView retrieves a view by id.
func (s *Store) GetView(ctx context.Context, id string) (*grid.ViewConfig, error) {
	return s.getView(ctx, `SELECT id, name, columns, COALESCE(sort_field, ''), sort_desc, density, auto_size FROM views WHERE id = ?`, id)
}

// GetViewByName retrieves a view by its unique name.
func (s *Store) GetViewByName(ctx context.Context, name string) (*grid.ViewConfig, error) {
	return s.getView(ctx, `SELECT id, name, columns, COALESCE(sort_field, ''), sort_desc, density, auto_size FROM views WHERE name = ?`, name)
}

func (s *Store) getView(ctx context.Context, query, arg string) (*grid.ViewConfig, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	var v grid.ViewConfig
	var cols, density string
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&v.ID, &v.Name, &cols, &v.SortField, &v.SortDesc, &density, &v.AutoSize)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get view: %w", err)
	}
	if err := json.Unmarshal([]byte(cols), &v.Columns); err != nil {
		return nil, fmt.Errorf("failed to decode view columns: %w", err)
	}
	v.Density = grid.Density(density)
	return &v, nil
}

// ListViews returns all views ordered by name.
func (s *Store) ListViews(ctx context.Context) ([]grid.ViewConfig, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, columns, COALESCE(sort_field, ''), sort_desc, density, auto_size FROM views ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var views []grid.ViewConfig
	for rows.Next() {
		var v grid.ViewConfig
		var cols, density string
		if err := rows.Scan(&v.ID, &v.Name, &cols, &v.SortField, &v.SortDesc, &density, &v.AutoSize); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		if err := json.Unmarshal([]byte(cols), &v.Columns); err != nil {
			return nil, fmt.Errorf("failed to decode view columns: %w", err)
		}
		v.Density = grid.Density(density)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read views: %w", err)
	}
	return views, nil
}

// UpdateColumns replaces a view's column list.
func (s *Store) UpdateColumns(ctx context.Context, viewID string, cols []grid.ViewColumn) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	encoded, err := json.Marshal(cols)
	if err != nil {
		return fmt.Errorf("failed to encode view columns: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE views SET columns = ?, updated_at = ? WHERE id = ?`,
		string(encoded), time.Now().UTC(), viewID)
	if err != nil {
		return fmt.Errorf("failed to update view columns: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrViewNotFound, viewID)
	}
	return nil
}

// GetOverride retrieves the layout override for a view at a display
// tier. Returns (nil, nil) when none exists: no override is a normal
// state, not an error.
func (s *Store) GetOverride(ctx context.Context, viewID, tier string) (*grid.LayoutOverride, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	var cols string
	var density sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT columns, density FROM layout_overrides WHERE view_id = ? AND tier = ?`,
		viewID, tier).Scan(&cols, &density)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get layout override: %w", err)
	}

	o := &grid.LayoutOverride{ViewID: viewID, Tier: tier}
	if err := json.Unmarshal([]byte(cols), &o.Columns); err != nil {
		return nil, fmt.Errorf("failed to decode layout override: %w", err)
	}
	if density.Valid {
		o.Density = grid.Density(density.String)
	}
	return o, nil
}

// SaveOverride upserts a layout override for (view, tier).
func (s *Store) SaveOverride(ctx context.Context, o *grid.LayoutOverride) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	cols, err := json.Marshal(o.Columns)
	if err != nil {
		return fmt.Errorf("failed to encode layout override: %w", err)
	}
	var density any
	if o.Density != "" {
		density = string(o.Density)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO layout_overrides (view_id, tier, columns, density, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(view_id, tier) DO UPDATE SET
		   columns = excluded.columns, density = excluded.density, updated_at = excluded.updated_at`,
		o.ViewID, o.Tier, string(cols), density, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save layout override: %w", err)
	}
	return nil
}

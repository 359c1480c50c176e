package store

import (
	"context"
	"fmt"

	"github.com/gridline-labs/gridline/internal/schema"
)

// UpsertField saves a field definition, replacing any existing one.
func (s *Store) UpsertField(ctx context.Context, def schema.FieldDefinition) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fields (key, label, type, sortable, editable, storage_key, identifier)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   label = excluded.label, type = excluded.type,
		   sortable = excluded.sortable, editable = excluded.editable,
		   storage_key = excluded.storage_key, identifier = excluded.identifier`,
		def.Key, def.Label, string(def.Type), def.Sortable, def.Editable, def.StorageKey, def.Identifier,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert field %s: %w", def.Key, err)
	}
	return nil
}

// ListFields returns all field definitions ordered by key.
func (s *Store) ListFields(ctx context.Context) ([]schema.FieldDefinition, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, label, type, sortable, editable, COALESCE(storage_key, ''), identifier
		 FROM fields ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var defs []schema.FieldDefinition
	for rows.Next() {
		var def schema.FieldDefinition
		var typ string
		if err := rows.Scan(&def.Key, &def.Label, &typ, &def.Sortable, &def.Editable, &def.StorageKey, &def.Identifier); err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		def.Type = schema.FieldType(typ)
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fields: %w", err)
	}
	return defs, nil
}

// LoadRegistry builds a schema registry from the persisted fields.
func (s *Store) LoadRegistry(ctx context.Context) (*schema.Registry, error) {
	defs, err := s.ListFields(ctx)
	if err != nil {
		return nil, err
	}
	reg := schema.NewRegistry()
	for _, def := range defs {
		reg.Register(def)
	}
	return reg, nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/gridline-labs/gridline/internal/grid"
)

// ErrRecordNotFound is returned when a record id resolves nothing.
var ErrRecordNotFound = errors.New("record not found")

// searchFolder lowercases for the free-text match. Case folding via
// x/text handles non-ASCII values the way bytes.ToLower does not.
var searchFolder = cases.Fold()

// InsertRecord stores a new record and returns its id.
func (s *Store) InsertRecord(ctx context.Context, values map[string]string) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("database not opened")
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	id := generateID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, data, created_at) VALUES (?, ?, ?)`,
		id, string(data), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert record: %w", err)
	}
	return id, nil
}

// UpdateCell sets one field of one record. Used by the inline editor
// and the clear-cell collaborator.
func (s *Store) UpdateCell(ctx context.Context, recordID, fieldKey, value string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET data = json_set(data, ?, ?) WHERE id = ?`,
		"$."+fieldKey, value, recordID)
	if err != nil {
		return fmt.Errorf("failed to update cell: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, recordID)
	}
	return nil
}

// FetchPage returns one page of rows for the query. Identical
// concurrent queries are collapsed into a single database scan.
func (s *Store) FetchPage(ctx context.Context, q grid.Query) (grid.Page, error) {
	key := fetchKey(q)
	v, err, _ := s.fetch.Do(key, func() (any, error) {
		return s.fetchPage(ctx, q)
	})
	if err != nil {
		return grid.Page{}, err
	}
	return v.(grid.Page), nil
}

// fetchKey folds the query into a dedup key.
func fetchKey(q grid.Query) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s|%d|%d|", q.ViewID, q.SortField, q.SortDir, q.Search, q.Offset, q.Limit)
	for k, v := range q.Filters {
		fmt.Fprintf(&b, "%s=%s;", k, v)
	}
	return b.String()
}

func (s *Store) fetchPage(ctx context.Context, q grid.Query) (grid.Page, error) {
	if s.db == nil {
		return grid.Page{}, fmt.Errorf("database not opened")
	}

	query, args := buildFetchQuery(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return grid.Page{}, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// Sorting and structured filters run in SQL; the free-text search
	// folds in Go, so the offset/limit window is applied while
	// streaming matches.
	needle := ""
	if q.Search != "" {
		needle = searchFolder.String(q.Search)
	}

	page := grid.Page{}
	matched := 0
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return grid.Page{}, fmt.Errorf("failed to scan record: %w", err)
		}
		var values map[string]string
		if err := json.Unmarshal([]byte(data), &values); err != nil {
			return grid.Page{}, fmt.Errorf("failed to decode record %s: %w", id, err)
		}
		if needle != "" && !rowMatches(values, needle) {
			continue
		}
		if matched >= q.Offset && (q.Limit <= 0 || len(page.Rows) < q.Limit) {
			page.Rows = append(page.Rows, grid.Row{ID: id, Values: values})
		}
		matched++
	}
	if err := rows.Err(); err != nil {
		return grid.Page{}, fmt.Errorf("failed to read records: %w", err)
	}

	page.Total = matched
	page.HasMore = q.Offset+len(page.Rows) < matched
	return page, nil
}

// buildFetchQuery assembles the SQL for a query: structured filters
// compare extracted JSON values, sorting orders by the sort field with
// a case-insensitive collation, and insertion order breaks ties.
func buildFetchQuery(q grid.Query) (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString(`SELECT id, data FROM records`)

	if len(q.Filters) > 0 {
		keys := make([]string, 0, len(q.Filters))
		for k := range q.Filters {
			keys = append(keys, k)
		}
		// deterministic clause order for the query planner cache
		sort.Strings(keys)
		sb.WriteString(` WHERE `)
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(` AND `)
			}
			sb.WriteString(`json_extract(data, ?) = ?`)
			args = append(args, "$."+k, q.Filters[k])
		}
	}

	if q.SortField != "" {
		sb.WriteString(` ORDER BY json_extract(data, ?) COLLATE NOCASE`)
		args = append(args, "$."+q.SortField)
		if q.SortDir == grid.SortDesc {
			sb.WriteString(` DESC`)
		}
		sb.WriteString(`, created_at, id`)
	} else {
		sb.WriteString(` ORDER BY created_at, id`)
	}

	return sb.String(), args
}

// rowMatches reports whether any field value contains the folded
// search needle.
func rowMatches(values map[string]string, needle string) bool {
	for _, v := range values {
		if strings.Contains(searchFolder.String(v), needle) {
			return true
		}
	}
	return false
}

// CountRecords returns the total number of stored records.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

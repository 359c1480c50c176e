package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridline-labs/gridline/internal/grid"
)

// mockStore wires a Store to a sqlmock connection so database failures
// can be exercised without a real file.
func mockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Store{db: db}, mock
}

func TestFetchPage_QueryError(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectQuery(`SELECT id, data FROM records`).
		WillReturnError(errors.New("disk I/O error"))

	_, err := s.FetchPage(context.Background(), grid.Query{Limit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query records")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPage_ScanError(t *testing.T) {
	s, mock := mockStore(t)
	rows := sqlmock.NewRows([]string{"id", "data"}).
		AddRow("r1", `{"name":"ok"}`).
		RowError(0, errors.New("database is locked"))
	mock.ExpectQuery(`SELECT id, data FROM records`).WillReturnRows(rows)

	_, err := s.FetchPage(context.Background(), grid.Query{Limit: 10})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPage_MalformedRecord(t *testing.T) {
	s, mock := mockStore(t)
	rows := sqlmock.NewRows([]string{"id", "data"}).AddRow("r1", `{not json`)
	mock.ExpectQuery(`SELECT id, data FROM records`).WillReturnRows(rows)

	_, err := s.FetchPage(context.Background(), grid.Query{Limit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode record r1")
}

func TestUpdateCell_ExecError(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectExec(`UPDATE records SET data = json_set`).
		WillReturnError(errors.New("readonly database"))

	err := s.UpdateCell(context.Background(), "r1", "name", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update cell")
}

func TestListFields_QueryError(t *testing.T) {
	s, mock := mockStore(t)
	mock.ExpectQuery(`SELECT key, label, type`).
		WillReturnError(errors.New("no such table: fields"))

	_, err := s.ListFields(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list fields")
}

func TestStore_UnopenedGuards(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.FetchPage(ctx, grid.Query{})
	assert.Error(t, err)
	assert.Error(t, s.UpdateCell(ctx, "r", "f", "v"))
	_, err = s.ListFields(ctx)
	assert.Error(t, err)
	assert.Error(t, s.InitSchema())
}

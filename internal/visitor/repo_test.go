package visitor

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/store"
)

func newSQLiteRepo(t *testing.T) *SQLRepository {
	t.Helper()
	ctx := context.Background()
	db, err := store.NewDB(ctx, store.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))
	return NewSQLRepository(db.Client)
}

func activeVisitor(id, name string, start time.Time) Visitor {
	return Visitor{ID: id, Name: name, StartTime: start, IsActive: true, CreatedAt: start, UpdatedAt: start}
}

func TestSQLRepository_InsertListGet(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)

	company := "Beispiel GmbH"
	first := activeVisitor("v1", "Max", base)
	first.Company = &company
	_, err := repo.Insert(ctx, first)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, activeVisitor("v2", "Lisa", base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, activeVisitor("v3", "Tom", base.Add(2*time.Hour)))
	require.NoError(t, err)

	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"v3", "v2", "v1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	limited, err := repo.List(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	got, err := repo.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "Max", got.Name)
	require.NotNil(t, got.Company)
	assert.Equal(t, company, *got.Company)
	assert.Nil(t, got.Host)
	assert.Nil(t, got.EndTime)
	assert.True(t, got.StartTime.Equal(base))

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLRepository_InsertRejectsInvalid(t *testing.T) {
	repo := newSQLiteRepo(t)
	v := activeVisitor("v1", "", time.Now().UTC())
	_, err := repo.Insert(context.Background(), v)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestSQLRepository_CheckOut(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	_, err := repo.Insert(ctx, activeVisitor("v1", "Max", start))
	require.NoError(t, err)

	end := start.Add(90 * time.Minute)
	v, err := repo.CheckOut(ctx, "v1", end)
	require.NoError(t, err)
	assert.False(t, v.IsActive)
	require.NotNil(t, v.EndTime)
	assert.True(t, v.EndTime.Equal(end))

	// second checkout keeps the first end time
	again, err := repo.CheckOut(ctx, "v1", end.Add(time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
	require.NotNil(t, again.EndTime)
	assert.True(t, again.EndTime.Equal(end))

	_, err = repo.CheckOut(ctx, "missing", end)
	assert.ErrorIs(t, err, ErrNotFound)

	active, err := repo.List(ctx, Filter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSQLRepository_CheckOutAll(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		_, err := repo.Insert(ctx, activeVisitor(id, id, start.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}
	_, err := repo.CheckOut(ctx, "a", start.Add(time.Hour))
	require.NoError(t, err)

	ended, err := repo.CheckOutAll(ctx, start.Add(8*time.Hour))
	require.NoError(t, err)
	require.Len(t, ended, 2)
	assert.Equal(t, "c", ended[0].ID)
	assert.Equal(t, "b", ended[1].ID)
	for _, v := range ended {
		assert.False(t, v.IsActive)
		require.NotNil(t, v.EndTime)
		assert.True(t, v.EndTime.Equal(start.Add(8*time.Hour)))
	}

	ended, err = repo.CheckOutAll(ctx, start.Add(9*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, ended)

	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	for _, v := range all {
		assert.False(t, v.IsActive, v.ID)
		assert.NotNil(t, v.EndTime, v.ID)
	}
}

func setupMockVisitorDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *SQLRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewSQLRepository(db)
}

func TestSQLRepository_ListQueryError(t *testing.T) {
	db, mock, repo := setupMockVisitorDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM visitors WHERE is_active = \$1 ORDER BY start_time DESC LIMIT \$2`).
		WithArgs(true, 5).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background(), Filter{ActiveOnly: true, Limit: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list visitors")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_ScanRejectsBrokenRow(t *testing.T) {
	db, mock, repo := setupMockVisitorDB(t)
	defer db.Close()

	start := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "name", "company", "purpose", "host", "notes", "badge_number",
		"start_time", "end_time", "is_active", "created_at", "updated_at",
	}).AddRow("v1", "Max", nil, nil, nil, nil, nil, start, start.Add(time.Hour), true, start, start)

	mock.ExpectQuery(`SELECT (.+) FROM visitors WHERE id = \$1`).
		WithArgs("v1").
		WillReturnRows(rows)

	_, err := repo.Get(context.Background(), "v1")
	assert.ErrorIs(t, err, ErrInvalidRecord)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_CheckOutExecError(t *testing.T) {
	db, mock, repo := setupMockVisitorDB(t)
	defer db.Close()

	at := time.Now().UTC()
	mock.ExpectExec(`UPDATE visitors`).
		WithArgs(at, false, at, "v1", true).
		WillReturnError(errors.New("deadlock"))

	_, err := repo.CheckOut(context.Background(), "v1", at)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checkout visitor")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_CheckOutAllSkipsConcurrentCheckout(t *testing.T) {
	db, mock, repo := setupMockVisitorDB(t)
	defer db.Close()

	start := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	at := start.Add(8 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "name", "company", "purpose", "host", "notes", "badge_number",
		"start_time", "end_time", "is_active", "created_at", "updated_at",
	}).
		AddRow("v2", "Ben", nil, nil, nil, nil, nil, start.Add(time.Minute), nil, true, start, start).
		AddRow("v1", "Max", nil, nil, nil, nil, nil, start, nil, true, start, start)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM visitors WHERE is_active = \$1`).WithArgs(true).WillReturnRows(rows)
	mock.ExpectExec(`UPDATE visitors`).WithArgs(at, false, at, "v2", true).WillReturnResult(sqlmock.NewResult(0, 1))
	// v1 was checked out by hand in the meantime
	mock.ExpectExec(`UPDATE visitors`).WithArgs(at, false, at, "v1", true).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ended, err := repo.CheckOutAll(context.Background(), at)
	require.NoError(t, err)
	require.Len(t, ended, 1)
	assert.Equal(t, "v2", ended[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_CheckOutAllRollsBack(t *testing.T) {
	db, mock, repo := setupMockVisitorDB(t)
	defer db.Close()

	start := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	at := start.Add(8 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "name", "company", "purpose", "host", "notes", "badge_number",
		"start_time", "end_time", "is_active", "created_at", "updated_at",
	}).AddRow("v1", "Max", nil, nil, nil, nil, nil, start, nil, true, start, start)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM visitors`).WithArgs(true).WillReturnRows(rows)
	mock.ExpectExec(`UPDATE visitors`).WithArgs(at, false, at, "v1", true).WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	_, err := repo.CheckOutAll(context.Background(), at)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

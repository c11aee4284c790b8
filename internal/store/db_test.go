package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(ctx, SQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate(ctx))
	// idempotent
	require.NoError(t, db.Migrate(ctx))

	for _, table := range []string{"visitors", "slideshow_items", "layout_configs", "system_settings", "admin_users", "refresh_tokens"} {
		var name string
		err := db.Client.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
	assert.True(t, db.Healthy(ctx))
}

func TestSQLiteCheckoutConstraint(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(ctx, SQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	_, err = db.Client.ExecContext(ctx, `
		INSERT INTO visitors (id, name, start_time, end_time, is_active, created_at, updated_at)
		VALUES ('v1', 'Max', '2024-01-01 10:00:00', '2024-01-01 11:00:00', 1, '2024-01-01 10:00:00', '2024-01-01 10:00:00')
	`)
	assert.Error(t, err, "active visitor with end_time must be rejected")
}

func TestNewDB_UnknownDialect(t *testing.T) {
	_, err := NewDB(context.Background(), "oracle", "x")
	assert.Error(t, err)
}

func TestRedisHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := NewRedis(mr.Addr())
	require.NoError(t, err)
	defer r.Close()

	assert.True(t, r.Healthy(context.Background()))

	var nilRedis *Redis
	assert.False(t, nilRedis.Healthy(context.Background()))
}

package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/autocheckout"
	"frontdesk/internal/config"
	"frontdesk/internal/queue"
	"frontdesk/internal/visitor"
)

func TestOpen_Memory(t *testing.T) {
	b, err := Open(context.Background(), config.App{StoreBackend: "memory", QueueBackend: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	assert.Nil(t, b.DB)
	assert.Nil(t, b.Redis)
	assert.IsType(t, &queue.InMemory{}, b.Queue)
	assert.IsType(t, &autocheckout.MemoryMarker{}, b.Marker())

	demo, err := b.Visitors.List(context.Background(), visitor.Filter{})
	require.NoError(t, err)
	assert.NotEmpty(t, demo, "memory mode starts with demo visitors")
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, config.App{StoreBackend: "sqlite", SQLitePath: ":memory:", QueueBackend: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	require.NotNil(t, b.DB)
	assert.True(t, b.DB.Healthy(ctx))

	now := time.Now().UTC().Truncate(time.Second)
	_, err = b.Visitors.Insert(ctx, visitor.Visitor{ID: "v1", Name: "Erika", StartTime: now, IsActive: true, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	got, err := b.Visitors.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "Erika", got.Name)
}

func TestOpen_RedisQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	b, err := Open(context.Background(), config.App{StoreBackend: "memory", QueueBackend: "redis", RedisAddr: mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	require.NotNil(t, b.Redis)
	assert.IsType(t, &queue.RedisQueue{}, b.Queue)
	assert.IsType(t, &visitor.RedisBadges{}, b.Badges)
	assert.IsType(t, &autocheckout.RedisMarker{}, b.Marker())

	badge, err := b.Badges.Next(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "B001", badge)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.App{StoreBackend: "mongo"}, zerolog.Nop())
	assert.Error(t, err)
}

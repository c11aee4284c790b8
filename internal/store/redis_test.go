package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_Addr(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := NewRedis(mr.Addr())
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.Ping(ctx))
	assert.True(t, r.Healthy(ctx))

	addr := mr.Addr()
	mr.Close()
	err = r.Ping(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
	assert.False(t, r.Healthy(ctx))
}

func TestNewRedis_URL(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("geheim")

	r, err := NewRedis("redis://:geheim@" + mr.Addr() + "/2")
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 2, r.Client.Options().DB)

	ctx := context.Background()
	require.NoError(t, r.Client.Set(ctx, "k", "v", 0).Err())
	got, err := mr.DB(2).Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	wrong, err := NewRedis("redis://:falsch@" + mr.Addr())
	require.NoError(t, err)
	defer wrong.Close()
	assert.Error(t, wrong.Ping(ctx))
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis("redis://localhost:6379/zwei")
	assert.Error(t, err)

	var nilRedis *Redis
	assert.False(t, nilRedis.Healthy(context.Background()))
	assert.NoError(t, nilRedis.Close())
}

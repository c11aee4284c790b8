package autocheckout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/siteconfig"
)

type fakeVisitors struct {
	calls atomic.Int32
	err   error
}

func (f *fakeVisitors) CheckOutAll(context.Context) (int, error) {
	f.calls.Add(1)
	return 3, f.err
}

type fakeSettings struct {
	st  siteconfig.SystemSettings
	err error
}

func (f fakeSettings) Settings(context.Context) (siteconfig.SystemSettings, error) {
	return f.st, f.err
}

func settings(hour int, enabled bool) fakeSettings {
	return fakeSettings{st: siteconfig.SystemSettings{Timezone: "Europe/Berlin", AutoCheckoutTime: hour, EnableAutoCheckout: enabled}}
}

func TestRunOnce(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	v := &fakeVisitors{}
	s := New(v, settings(18, true), nil, time.Minute, zerolog.Nop())
	ctx := context.Background()

	s.now = func() time.Time { return time.Date(2024, 3, 14, 17, 59, 0, 0, berlin) }
	n, err := s.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, v.calls.Load(), "before the checkout hour")

	s.now = func() time.Time { return time.Date(2024, 3, 14, 18, 0, 0, 0, berlin) }
	n, err = s.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	s.now = func() time.Time { return time.Date(2024, 3, 14, 23, 0, 0, 0, berlin) }
	_, err = s.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v.calls.Load(), "once per day")

	s.now = func() time.Time { return time.Date(2024, 3, 15, 18, 30, 0, 0, berlin) }
	_, err = s.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v.calls.Load(), "next day runs again")
}

func TestRunOnce_UsesSettingsTimezone(t *testing.T) {
	v := &fakeVisitors{}
	s := New(v, settings(18, true), nil, time.Minute, zerolog.Nop())
	// 17:30 UTC is 18:30 in Berlin (CET, winter)
	s.now = func() time.Time { return time.Date(2024, 1, 10, 17, 30, 0, 0, time.UTC) }

	_, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), v.calls.Load())
}

func TestRunOnce_Disabled(t *testing.T) {
	v := &fakeVisitors{}
	s := New(v, settings(0, false), nil, time.Minute, zerolog.Nop())
	_, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, v.calls.Load())
}

func TestRunOnce_SettingsError(t *testing.T) {
	v := &fakeVisitors{}
	s := New(v, fakeSettings{err: errors.New("db down")}, nil, time.Minute, zerolog.Nop())
	_, err := s.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Zero(t, v.calls.Load())
}

func TestRedisMarker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	a := NewRedisMarker(client)
	b := NewRedisMarker(client)

	ok, err := a.Claim(ctx, "2024-03-14")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Claim(ctx, "2024-03-14")
	require.NoError(t, err)
	assert.False(t, ok, "second worker loses the claim")

	ok, err = b.Claim(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 48*time.Hour, mr.TTL("frontdesk:autocheckout:2024-03-14"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	v := &fakeVisitors{}
	s := New(v, settings(0, true), nil, 5*time.Millisecond, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return v.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

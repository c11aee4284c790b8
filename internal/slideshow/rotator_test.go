package slideshow

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slides(ids ...string) []Item {
	res := make([]Item, len(ids))
	for i, id := range ids {
		res[i] = Item{ID: id, Title: id, DisplayTime: 5, IsActive: true, Order: i + 1}
	}
	return res
}

func TestRotator_TickWraps(t *testing.T) {
	r := NewRotator(slides("A", "B", "C"))

	var seq []int
	for i := 0; i < 3; i++ {
		idx, ok := r.Tick()
		require.True(t, ok)
		seq = append(seq, idx)
	}
	assert.Equal(t, []int{1, 2, 0}, seq)

	cur, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "A", cur.ID)
}

func TestRotator_VisitsEveryIndexOncePerCycle(t *testing.T) {
	for n := 1; n <= 7; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('A' + i))
		}
		r := NewRotator(slides(ids...))
		seen := map[int]int{}
		for i := 0; i < n; i++ {
			idx, _ := r.Tick()
			seen[idx]++
		}
		assert.Len(t, seen, n)
		for idx, count := range seen {
			assert.Equal(t, 1, count, "n=%d idx=%d", n, idx)
		}
	}
}

func TestRotator_Empty(t *testing.T) {
	r := NewRotator(nil)
	assert.NotPanics(t, func() {
		for i := 0; i < 5; i++ {
			_, ok := r.Tick()
			assert.False(t, ok)
		}
	})
	assert.Equal(t, 0, r.Index())
	_, ok := r.Current()
	assert.False(t, ok)
}

func TestRotator_Replace(t *testing.T) {
	r := NewRotator(slides("A", "B", "C"))
	r.Tick()
	r.Tick()
	assert.Equal(t, 2, r.Index())

	r.Replace(slides("X", "Y"))
	assert.Equal(t, 0, r.Index(), "out of range index resets")
	assert.Equal(t, 2, r.Len())

	r.Tick()
	r.Replace(slides("X", "Y", "Z"))
	assert.Equal(t, 1, r.Index())

	r.Replace(nil)
	_, ok := r.Tick()
	assert.False(t, ok)
}

func TestRotator_Run(t *testing.T) {
	r := NewRotator(slides("A", "B", "C"))
	ctx, cancel := context.WithCancel(context.Background())

	var (
		mu  sync.Mutex
		got []int
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx, func() time.Duration { return 5 * time.Millisecond }, func(idx int, _ Item) {
			mu.Lock()
			got = append(got, idx)
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 4
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 0, 1}, got[:4])
}

func TestRotator_RunRereadsInterval(t *testing.T) {
	r := NewRotator(slides("A", "B"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	var ticks atomic.Int32
	go r.Run(ctx, func() time.Duration {
		calls.Add(1)
		return 2 * time.Millisecond
	}, func(int, Item) { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
	// one read for the first timer and one per completed tick
	assert.GreaterOrEqual(t, calls.Load(), ticks.Load())
}

func TestRotator_RunEmptyNeverEmits(t *testing.T) {
	r := NewRotator(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	var ticks atomic.Int32
	r.Run(ctx, func() time.Duration { return time.Millisecond }, func(int, Item) { ticks.Add(1) })
	assert.Zero(t, ticks.Load())
}

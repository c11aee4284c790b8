package slideshow

import (
	"context"
	"sync"
	"time"
)

// Rotator cycles a zero-based index over a list of slides.
type Rotator struct {
	mu     sync.Mutex
	slides []Item
	index  int
}

func NewRotator(slides []Item) *Rotator {
	return &Rotator{slides: slides}
}

// Tick advances to the next slide, wrapping after the last one.
// With no slides it stays put and reports false.
func (r *Rotator) Tick() (int, bool) {
	idx, _, ok := r.advance()
	return idx, ok
}

func (r *Rotator) advance() (int, Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.slides) == 0 {
		return 0, Item{}, false
	}
	r.index = (r.index + 1) % len(r.slides)
	return r.index, r.slides[r.index], true
}

// Current returns the slide being shown.
func (r *Rotator) Current() (Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.slides) == 0 {
		return Item{}, false
	}
	return r.slides[r.index], true
}

func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

func (r *Rotator) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slides)
}

// Replace swaps in a fresh slide list. The index is kept when still in range.
func (r *Rotator) Replace(slides []Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slides = slides
	if r.index >= len(slides) {
		r.index = 0
	}
}

// Run ticks until ctx is done, calling emit with each new position.
// interval is read again before every tick; a non-positive value pauses for a second.
func (r *Rotator) Run(ctx context.Context, interval func() time.Duration, emit func(int, Item)) {
	next := func() time.Duration {
		d := interval()
		if d <= 0 {
			d = time.Second
		}
		return d
	}

	timer := time.NewTimer(next())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if idx, it, ok := r.advance(); ok {
				emit(idx, it)
			}
			timer.Reset(next())
		}
	}
}

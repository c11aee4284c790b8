package handler

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"frontdesk/internal/i18n"
	"frontdesk/internal/siteconfig"
	"frontdesk/internal/slideshow"
	"frontdesk/internal/visitor"
)

type displaySnapshot struct {
	Visitors []visitor.Visitor         `json:"visitors"`
	Slides   []slideshow.Item          `json:"slides"`
	Settings siteconfig.PublicSettings `json:"settings"`
	Layout   siteconfig.LayoutConfig   `json:"layout"`
}

func (h *Handler) snapshot(ctx context.Context) (displaySnapshot, error) {
	st, err := h.site.Settings(ctx)
	if err != nil {
		return displaySnapshot{}, err
	}
	layout, err := h.site.Layout(ctx)
	if err != nil {
		return displaySnapshot{}, err
	}
	visitors, err := h.visitors.Active(ctx, st.VisitorDisplayLimit)
	if err != nil {
		return displaySnapshot{}, err
	}
	slides, err := h.slides.Active(ctx)
	if err != nil {
		return displaySnapshot{}, err
	}
	if slides == nil {
		slides = []slideshow.Item{}
	}
	return displaySnapshot{
		Visitors: nonNil(visitors),
		Slides:   slides,
		Settings: st.Public(),
		Layout:   layout,
	}, nil
}

func (h *Handler) display(c *gin.Context) {
	snap, err := h.snapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err, i18n.LoadFailed)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type sseEvent struct {
	name string
	data any
}

// slideEvent with Total 0 and no Slide tells the display to clear the slideshow.
type slideEvent struct {
	Index int             `json:"index"`
	Total int             `json:"total"`
	Slide *slideshow.Item `json:"slide,omitempty"`
}

func currentSlide(rot *slideshow.Rotator) slideEvent {
	it, ok := rot.Current()
	if !ok {
		return slideEvent{}
	}
	return slideEvent{Index: rot.Index(), Total: rot.Len(), Slide: &it}
}

// sameSlides reports whether two active slide lists would render the same.
func sameSlides(a, b []slideshow.Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Order != b[i].Order || !a[i].UpdatedAt.Equal(b[i].UpdatedAt) {
			return false
		}
	}
	return true
}

// displayStream pushes "slide" events as the rotation advances or the slide set
// changes, and "visitors" events on every refresh. Each connection runs its own rotator.
func (h *Handler) displayStream(c *gin.Context) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	snap, err := h.snapshot(ctx)
	if err != nil {
		h.fail(c, err, i18n.LoadFailed)
		return
	}

	rot := slideshow.NewRotator(snap.Slides)
	var interval atomic.Int64
	interval.Store(int64(slideInterval(snap.Settings)))

	events := make(chan sseEvent, 8)
	send := func(e sseEvent) {
		select {
		case events <- e:
		case <-ctx.Done():
		}
	}

	events <- sseEvent{name: "visitors", data: snap.Visitors}
	if rot.Len() > 0 {
		events <- sseEvent{name: "slide", data: currentSlide(rot)}
	}

	go rot.Run(ctx, func() time.Duration { return time.Duration(interval.Load()) }, func(idx int, it slideshow.Item) {
		send(sseEvent{name: "slide", data: slideEvent{Index: idx, Total: rot.Len(), Slide: &it}})
	})
	go func() {
		ticker := time.NewTicker(h.refresh)
		defer ticker.Stop()
		shown := snap.Slides
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			fresh, err := h.snapshot(ctx)
			if err != nil {
				// keep showing the last good state
				h.log.Warn().Err(err).Msg("display refresh failed")
				continue
			}
			rot.Replace(fresh.Slides)
			interval.Store(int64(slideInterval(fresh.Settings)))
			if !sameSlides(shown, fresh.Slides) {
				shown = fresh.Slides
				send(sseEvent{name: "slide", data: currentSlide(rot)})
			}
			send(sseEvent{name: "visitors", data: fresh.Visitors})
		}
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case e := <-events:
			c.SSEvent(e.name, e.data)
			return true
		}
	})
}

func slideInterval(st siteconfig.PublicSettings) time.Duration {
	return time.Duration(st.SlideshowInterval) * time.Second
}

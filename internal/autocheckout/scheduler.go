package autocheckout

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"frontdesk/internal/siteconfig"
)

// Checkouter ends every active visit.
type Checkouter interface {
	CheckOutAll(ctx context.Context) (int, error)
}

// SettingsSource provides the current system settings.
type SettingsSource interface {
	Settings(ctx context.Context) (siteconfig.SystemSettings, error)
}

// Marker records that the run for a day happened, so restarts and
// multiple workers do not check out the same day twice.
type Marker interface {
	// Claim returns true for the first caller on a given day.
	Claim(ctx context.Context, day string) (bool, error)
}

// Scheduler checks out all visitors once a day at the configured hour.
type Scheduler struct {
	visitors Checkouter
	settings SettingsSource
	marker   Marker
	poll     time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func New(visitors Checkouter, settings SettingsSource, marker Marker, poll time.Duration, log zerolog.Logger) *Scheduler {
	if poll <= 0 {
		poll = time.Minute
	}
	if marker == nil {
		marker = &MemoryMarker{}
	}
	return &Scheduler{
		visitors: visitors,
		settings: settings,
		marker:   marker,
		poll:     poll,
		log:      log.With().Str("component", "autocheckout").Logger(),
		now:      time.Now,
	}
}

// Run polls until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	s.log.Info().Dur("poll", s.poll).Msg("auto-checkout scheduler started")
	for {
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error().Err(err).Msg("auto-checkout failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce checks out all visitors if the checkout hour has been reached in the
// settings timezone and today's run has not happened yet. It returns the number
// of visitors checked out.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	st, err := s.settings.Settings(ctx)
	if err != nil {
		return 0, err
	}
	if !st.EnableAutoCheckout {
		return 0, nil
	}
	local := s.now().In(st.Location())
	if local.Hour() < st.AutoCheckoutTime {
		return 0, nil
	}
	day := local.Format("2006-01-02")
	first, err := s.marker.Claim(ctx, day)
	if err != nil || !first {
		return 0, err
	}

	n, err := s.visitors.CheckOutAll(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("count", n).Str("day", day).Int("hour", st.AutoCheckoutTime).Msg("auto-checkout done")
	return n, nil
}

// MemoryMarker claims days in process memory.
type MemoryMarker struct {
	mu   sync.Mutex
	last string
}

func (m *MemoryMarker) Claim(_ context.Context, day string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == day {
		return false, nil
	}
	m.last = day
	return true, nil
}

// RedisMarker claims days with SETNX so the run happens once across workers.
type RedisMarker struct {
	client *redis.Client
	prefix string
}

func NewRedisMarker(client *redis.Client) *RedisMarker {
	return &RedisMarker{client: client, prefix: "frontdesk:autocheckout:"}
}

func (m *RedisMarker) Claim(ctx context.Context, day string) (bool, error) {
	return m.client.SetNX(ctx, m.prefix+day, time.Now().UTC().Format(time.RFC3339), 48*time.Hour).Result()
}

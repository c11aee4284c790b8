package siteconfig

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service serves the layout and settings singletons, creating them from
// defaults on first access.
type Service struct {
	repo     Repository
	defaults Defaults
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, defaults Defaults, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		log:      log.With().Str("component", "siteconfig").Logger(),
		now:      time.Now,
	}
}

// Layout returns the active layout.
func (s *Service) Layout(ctx context.Context) (LayoutConfig, error) {
	l, err := s.repo.ActiveLayout(ctx)
	if !errors.Is(err, ErrNotFound) {
		return l, err
	}
	now := s.now().UTC()
	l = s.defaults.Layout
	l.ID = uuid.NewString()
	l.IsActive = true
	l.CreatedAt, l.UpdatedAt = now, now
	s.log.Info().Msg("no active layout, creating default")
	return s.repo.InsertLayout(ctx, l)
}

// SaveLayout replaces the active layout's fields.
func (s *Service) SaveLayout(ctx context.Context, l LayoutConfig) (LayoutConfig, error) {
	cur, err := s.Layout(ctx)
	if err != nil {
		return LayoutConfig{}, err
	}
	l.ID = cur.ID
	l.IsActive = true
	l.CreatedAt = cur.CreatedAt
	l.UpdatedAt = s.now().UTC()
	l.Name = strings.TrimSpace(l.Name)
	l.BackgroundImageURL = blankToNil(l.BackgroundImageURL)
	if err := ValidateLayout(l); err != nil {
		return LayoutConfig{}, err
	}
	return s.repo.UpdateLayout(ctx, l)
}

// Settings returns the system settings.
func (s *Service) Settings(ctx context.Context) (SystemSettings, error) {
	st, err := s.repo.Settings(ctx)
	if !errors.Is(err, ErrNotFound) {
		return st, err
	}
	now := s.now().UTC()
	st = s.defaults.Settings
	st.ID = uuid.NewString()
	st.CreatedAt, st.UpdatedAt = now, now
	s.log.Info().Msg("no system settings, creating default")
	return s.repo.InsertSettings(ctx, st)
}

// SaveSettings validates and stores new settings.
func (s *Service) SaveSettings(ctx context.Context, st SystemSettings) (SystemSettings, error) {
	cur, err := s.Settings(ctx)
	if err != nil {
		return SystemSettings{}, err
	}
	st.ID = cur.ID
	st.CreatedAt = cur.CreatedAt
	st.UpdatedAt = s.now().UTC()
	st.SiteName = strings.TrimSpace(st.SiteName)
	st.CompanyName = strings.TrimSpace(st.CompanyName)
	st.LogoURL = blankToNil(st.LogoURL)
	if err := ValidateSettings(st); err != nil {
		return SystemSettings{}, err
	}
	saved, err := s.repo.UpdateSettings(ctx, st)
	if err != nil {
		return SystemSettings{}, err
	}
	s.log.Info().
		Int("slideshow_interval", saved.SlideshowInterval).
		Int("auto_checkout_time", saved.AutoCheckoutTime).
		Str("timezone", saved.Timezone).
		Msg("settings saved")
	return saved, nil
}

// Location is the settings timezone, or the process zone when settings are unavailable.
func (s *Service) Location(ctx context.Context) *time.Location {
	st, err := s.Settings(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("settings unavailable, using local timezone")
		return time.Local
	}
	return st.Location()
}

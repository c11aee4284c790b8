package visitor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"frontdesk/internal/metrics"
	"frontdesk/internal/queue"
)

// Event types published on the visitor queue.
const (
	EventCheckedIn  = "visitor.checked_in"
	EventCheckedOut = "visitor.checked_out"
)

// RecentLimit is how many visitors the dashboard lists as recent.
const RecentLimit = 10

// Event is the queue payload for visitor lifecycle changes.
type Event struct {
	VisitorID   string    `json:"visitor_id"`
	Name        string    `json:"name"`
	Company     string    `json:"company,omitempty"`
	Host        string    `json:"host,omitempty"`
	BadgeNumber string    `json:"badge_number,omitempty"`
	At          time.Time `json:"at"`
	Auto        bool      `json:"auto,omitempty"`
}

// Publisher is the part of a queue the service writes to.
type Publisher interface {
	Publish(ctx context.Context, msg queue.Message) error
}

// Dashboard is the admin overview: counters, everyone still inside and the latest arrivals.
type Dashboard struct {
	Stats  Stats     `json:"stats"`
	Active []Visitor `json:"active"`
	Recent []Visitor `json:"recent"`
}

// Service coordinates check-in, check-out and dashboard aggregation.
type Service struct {
	repo   Repository
	badges BadgeIssuer
	events Publisher
	log    zerolog.Logger
	now    func() time.Time
}

// NewService creates a service backed by a repository. badges and events may be nil.
func NewService(repo Repository, badges BadgeIssuer, events Publisher, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		badges: badges,
		events: events,
		log:    log.With().Str("component", "visitor").Logger(),
		now:    time.Now,
	}
}

// CheckIn records a new active visitor.
func (s *Service) CheckIn(ctx context.Context, in CheckInInput, loc *time.Location) (Visitor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Visitor{}, ErrNameRequired
	}
	if loc == nil {
		loc = time.Local
	}

	now := s.now().UTC()
	v := Visitor{
		ID:        uuid.NewString(),
		Name:      name,
		Company:   optional(in.Company),
		Purpose:   optional(in.Purpose),
		Host:      optional(in.Host),
		Notes:     optional(in.Notes),
		StartTime: now,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.badges != nil {
		badge, err := s.badges.Next(ctx, now.In(loc))
		if err != nil {
			s.log.Warn().Err(err).Msg("badge number unavailable, checking in without badge")
		} else {
			v.BadgeNumber = &badge
		}
	}

	saved, err := s.repo.Insert(ctx, v)
	if err != nil {
		return Visitor{}, err
	}
	metrics.IncCheckIn()
	s.log.Info().Str("visitor_id", saved.ID).Msg("visitor checked in")
	s.publish(ctx, EventCheckedIn, saved, false)
	return saved, nil
}

// CheckOut ends a visit. Checking out twice returns ErrAlreadyCheckedOut and leaves the record untouched.
func (s *Service) CheckOut(ctx context.Context, id string) (Visitor, error) {
	if strings.TrimSpace(id) == "" {
		return Visitor{}, ErrNotFound
	}
	v, err := s.repo.CheckOut(ctx, id, s.now().UTC())
	if err != nil {
		return v, err
	}
	metrics.AddCheckOut("manual", 1)
	s.log.Info().Str("visitor_id", v.ID).Msg("visitor checked out")
	s.publish(ctx, EventCheckedOut, v, false)
	return v, nil
}

// CheckOutAll ends every active visit, used by the auto-checkout job.
func (s *Service) CheckOutAll(ctx context.Context) (int, error) {
	ended, err := s.repo.CheckOutAll(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	metrics.AddCheckOut("auto", len(ended))
	for _, v := range ended {
		s.publish(ctx, EventCheckedOut, v, true)
	}
	return len(ended), nil
}

// Active lists visitors currently on site, newest first. limit <= 0 means no limit.
func (s *Service) Active(ctx context.Context, limit int) ([]Visitor, error) {
	return s.repo.List(ctx, Filter{ActiveOnly: true, Limit: limit})
}

// List returns all visitors, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Visitor, error) {
	return s.repo.List(ctx, Filter{Limit: limit})
}

// Dashboard fetches the full visitor list once and derives everything from it.
func (s *Service) Dashboard(ctx context.Context, loc *time.Location) (Dashboard, error) {
	all, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Stats:  ComputeStats(all, s.now(), loc),
		Active: []Visitor{},
		Recent: all,
	}
	for _, v := range all {
		if v.IsActive {
			d.Active = append(d.Active, v)
		}
	}
	if len(d.Recent) > RecentLimit {
		d.Recent = d.Recent[:RecentLimit]
	}
	if d.Recent == nil {
		d.Recent = []Visitor{}
	}
	metrics.SetActiveVisitors(d.Stats.ActiveCount)
	return d, nil
}

func (s *Service) publish(ctx context.Context, typ string, v Visitor, auto bool) {
	if s.events == nil {
		return
	}
	evt := Event{VisitorID: v.ID, Name: v.Name, At: v.StartTime, Auto: auto}
	if v.EndTime != nil {
		evt.At = *v.EndTime
	}
	if v.Company != nil {
		evt.Company = *v.Company
	}
	if v.Host != nil {
		evt.Host = *v.Host
	}
	if v.BadgeNumber != nil {
		evt.BadgeNumber = *v.BadgeNumber
	}
	body, err := json.Marshal(evt)
	if err != nil {
		s.log.Error().Err(err).Msg("encode visitor event")
		return
	}
	// the visit is already stored; a lost event only skips a notification
	if err := s.events.Publish(ctx, queue.Message{Type: typ, Body: body}); err != nil {
		s.log.Warn().Err(err).Str("type", typ).Msg("queue publish failed")
	}
}

// DecodeEvent parses a queue message published by the service.
func DecodeEvent(msg queue.Message) (Event, error) {
	if msg.Type != EventCheckedIn && msg.Type != EventCheckedOut {
		return Event{}, errors.New("not a visitor event: " + msg.Type)
	}
	var evt Event
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		return Event{}, err
	}
	return evt, nil
}

package slideshow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Direction moves a slide one step in the rotation order.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

var ErrInvalidDirection = errors.New("direction must be up or down")

// Service manages slides for the admin pages and the kiosk display.
type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "slideshow").Logger(), now: time.Now}
}

// List returns every slide in display order.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx, Filter{})
}

// Active returns the slides the rotator cycles through.
func (s *Service) Active(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx, Filter{ActiveOnly: true})
}

// Create appends a slide after the current last one.
func (s *Service) Create(ctx context.Context, in Input) (Item, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return Item{}, err
	}
	all, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return Item{}, err
	}
	order := len(all) + 1
	for _, it := range all {
		if it.Order >= order {
			order = it.Order + 1
		}
	}

	now := s.now().UTC()
	it := apply(Item{ID: uuid.NewString(), IsActive: true, Order: order, CreatedAt: now}, in)
	it.UpdatedAt = now
	saved, err := s.repo.Insert(ctx, it)
	if err != nil {
		return Item{}, err
	}
	s.log.Info().Str("slide_id", saved.ID).Int("order", saved.Order).Msg("slide created")
	return saved, nil
}

// Update replaces the editable fields of a slide and keeps its position.
func (s *Service) Update(ctx context.Context, id string, in Input) (Item, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return Item{}, err
	}
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	it := apply(cur, in)
	it.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, it)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("slide_id", id).Msg("slide deleted")
	return nil
}

// ToggleActive flips whether the slide takes part in the rotation.
func (s *Service) ToggleActive(ctx context.Context, id string) (Item, error) {
	it, err := s.repo.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	it.IsActive = !it.IsActive
	it.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, it)
}

// Move swaps the slide's order with its neighbour. Moving past either end is a no-op.
// When orders are tied the whole list is renumbered 1..N first so the swap is visible.
func (s *Service) Move(ctx context.Context, id string, dir Direction) ([]Item, error) {
	if dir != Up && dir != Down {
		return nil, ErrInvalidDirection
	}
	all, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, it := range all {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}
	target := idx - 1
	if dir == Down {
		target = idx + 1
	}
	if target < 0 || target >= len(all) {
		return all, nil
	}

	current := make([]int, len(all))
	for i, it := range all {
		current[i] = it.Order
	}
	next := append([]int(nil), current...)
	if hasTies(current) {
		for i := range next {
			next[i] = i + 1
		}
	}
	next[idx], next[target] = next[target], next[idx]

	orders := make(map[string]int)
	for i, it := range all {
		if next[i] != current[i] {
			orders[it.ID] = next[i]
		}
	}
	if err := s.repo.Reorder(ctx, orders, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{})
}

// hasTies reports whether a sorted order list contains duplicates.
func hasTies(orders []int) bool {
	for i := 1; i < len(orders); i++ {
		if orders[i] == orders[i-1] {
			return true
		}
	}
	return false
}

func apply(it Item, in Input) Item {
	it.Title = in.Title
	it.Content = optional(in.Content)
	it.ImageURL = optional(in.ImageURL)
	it.DisplayTime = in.DisplayTime
	it.BackgroundColor = in.BackgroundColor
	it.TextColor = in.TextColor
	if in.IsActive != nil {
		it.IsActive = *in.IsActive
	}
	return it
}

package slideshow

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps slides in process memory for demo mode and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Item
}

func NewMemoryRepository(seed ...Item) *MemoryRepository {
	r := &MemoryRepository{items: make(map[string]Item, len(seed))}
	for _, it := range seed {
		r.items[it.ID] = it
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Item, 0, len(r.items))
	for _, it := range r.items {
		if f.ActiveOnly && !it.IsActive {
			continue
		}
		res = append(res, it)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Order != res[j].Order {
			return res[i].Order < res[j].Order
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (r *MemoryRepository) Insert(_ context.Context, it Item) (Item, error) {
	if err := Validate(it); err != nil {
		return Item{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = it
	return it, nil
}

func (r *MemoryRepository) Update(_ context.Context, it Item) (Item, error) {
	if err := Validate(it); err != nil {
		return Item{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.items[it.ID]
	if !ok {
		return Item{}, ErrNotFound
	}
	it.CreatedAt = old.CreatedAt
	r.items[it.ID] = it
	return it, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryRepository) Reorder(_ context.Context, orders map[string]int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range orders {
		if _, ok := r.items[id]; !ok {
			return ErrNotFound
		}
	}
	for id, order := range orders {
		it := r.items[id]
		it.Order, it.UpdatedAt = order, at
		r.items[id] = it
	}
	return nil
}

// DemoSeed returns the slides shown when the service runs without a database.
func DemoSeed(now time.Time) []Item {
	str := func(s string) *string { return &s }
	return []Item{
		{
			ID: "1", Title: "Willkommen bei Vitasco",
			Content:     str("Herzlich willkommen in unserem Unternehmen. Bitte melden Sie sich am Empfang an."),
			ImageURL:    str("https://images.pexels.com/photos/1181396/pexels-photo-1181396.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1"),
			DisplayTime: 8, IsActive: true, Order: 1, BackgroundColor: "#1e40af", TextColor: "#ffffff",
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "2", Title: "Moderne Technologie",
			Content:     str("Wir setzen auf innovative Lösungen und modernste Technologie für unsere Kunden."),
			ImageURL:    str("https://images.pexels.com/photos/3184291/pexels-photo-3184291.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1"),
			DisplayTime: 6, IsActive: true, Order: 2, BackgroundColor: "#3b82f6", TextColor: "#ffffff",
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "3", Title: "Unser Team",
			Content:     str("Erfahrene Experten arbeiten täglich daran, die besten Ergebnisse zu erzielen."),
			ImageURL:    str("https://images.pexels.com/photos/3184338/pexels-photo-3184338.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1"),
			DisplayTime: 7, IsActive: true, Order: 3, BackgroundColor: "#6366f1", TextColor: "#ffffff",
			CreatedAt: now, UpdatedAt: now,
		},
	}
}

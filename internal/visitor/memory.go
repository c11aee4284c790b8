package visitor

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps visitors in process memory. Used for demo mode and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	visitors map[string]Visitor
}

// NewMemoryRepository creates a repository seeded with the given visitors.
func NewMemoryRepository(seed ...Visitor) *MemoryRepository {
	r := &MemoryRepository{visitors: make(map[string]Visitor, len(seed))}
	for _, v := range seed {
		r.visitors[v.ID] = v
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]Visitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]Visitor, 0, len(r.visitors))
	for _, v := range r.visitors {
		if f.ActiveOnly && !v.IsActive {
			continue
		}
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].StartTime.After(res[j].StartTime) })
	if f.Limit > 0 && len(res) > f.Limit {
		res = res[:f.Limit]
	}
	return res, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Visitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.visitors[id]
	if !ok {
		return Visitor{}, ErrNotFound
	}
	return v, nil
}

func (r *MemoryRepository) Insert(_ context.Context, v Visitor) (Visitor, error) {
	if err := Validate(v); err != nil {
		return Visitor{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visitors[v.ID] = v
	return v, nil
}

func (r *MemoryRepository) CheckOut(_ context.Context, id string, at time.Time) (Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visitors[id]
	if !ok {
		return Visitor{}, ErrNotFound
	}
	if !v.IsActive {
		return v, ErrAlreadyCheckedOut
	}
	end := at
	v.EndTime = &end
	v.IsActive = false
	v.UpdatedAt = at
	r.visitors[id] = v
	return v, nil
}

func (r *MemoryRepository) CheckOutAll(_ context.Context, at time.Time) ([]Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ended []Visitor
	for id, v := range r.visitors {
		if !v.IsActive {
			continue
		}
		end := at
		v.EndTime = &end
		v.IsActive = false
		v.UpdatedAt = at
		r.visitors[id] = v
		ended = append(ended, v)
	}
	return ended, nil
}

// DemoSeed returns the visitors shown when the service runs without a database.
func DemoSeed(now time.Time) []Visitor {
	str := func(s string) *string { return &s }
	earlier := now.Add(-time.Hour)
	return []Visitor{
		{
			ID: "demo-1", Name: "Max Mustermann", Company: str("Beispiel GmbH"), Purpose: str("Geschäftstermin"),
			Host: str("Anna Schmidt"), Notes: str("VIP Gast"), BadgeNumber: str("B001"),
			StartTime: now, IsActive: true, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "demo-2", Name: "Lisa Weber", Company: str("Tech Solutions"), Purpose: str("Projektbesprechung"),
			Host: str("Thomas Müller"), BadgeNumber: str("B002"),
			StartTime: earlier, IsActive: true, CreatedAt: earlier, UpdatedAt: earlier,
		},
	}
}

package siteconfig

import (
	"context"
	"sync"
)

// MemoryRepository keeps the singletons in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	layout   *LayoutConfig
	settings *SystemSettings
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) ActiveLayout(context.Context) (LayoutConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.layout == nil || !r.layout.IsActive {
		return LayoutConfig{}, ErrNotFound
	}
	return *r.layout, nil
}

func (r *MemoryRepository) InsertLayout(_ context.Context, l LayoutConfig) (LayoutConfig, error) {
	if err := ValidateLayout(l); err != nil {
		return LayoutConfig{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layout = &l
	return l, nil
}

func (r *MemoryRepository) UpdateLayout(_ context.Context, l LayoutConfig) (LayoutConfig, error) {
	if err := ValidateLayout(l); err != nil {
		return LayoutConfig{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.layout == nil || r.layout.ID != l.ID {
		return LayoutConfig{}, ErrNotFound
	}
	r.layout = &l
	return l, nil
}

func (r *MemoryRepository) Settings(context.Context) (SystemSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return SystemSettings{}, ErrNotFound
	}
	return *r.settings, nil
}

func (r *MemoryRepository) InsertSettings(_ context.Context, s SystemSettings) (SystemSettings, error) {
	if err := ValidateSettings(s); err != nil {
		return SystemSettings{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = &s
	return s, nil
}

func (r *MemoryRepository) UpdateSettings(_ context.Context, s SystemSettings) (SystemSettings, error) {
	if err := ValidateSettings(s); err != nil {
		return SystemSettings{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil || r.settings.ID != s.ID {
		return SystemSettings{}, ErrNotFound
	}
	r.settings = &s
	return s, nil
}

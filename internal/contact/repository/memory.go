package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"safeguard/backend/internal/contact/domain"
)

// MemoryRepository is an in-memory Repository implementation, used in tests
// and in deployments without a database.
type MemoryRepository struct {
	mu sync.RWMutex
	m  map[string]domain.Contact
}

// NewMemoryRepository returns an empty in-memory contact repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{m: make(map[string]domain.Contact)}
}

// GetByID returns the contact for id, or nil if not found.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// List returns all contacts ordered by creation time.
func (r *MemoryRepository) List(ctx context.Context) ([]*domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Contact, 0, len(r.m))
	for _, c := range r.m {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Create persists the contact.
func (r *MemoryRepository) Create(ctx context.Context, c *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[c.ID] = *c
	return nil
}

// Update overwrites the stored contact for c.ID.
func (r *MemoryRepository) Update(ctx context.Context, c *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[c.ID] = *c
	return nil
}

// Delete removes the contact. Deleting an absent id is a no-op.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}

// RecordAccess increments the contact's access counter and stamps the time.
func (r *MemoryRepository) RecordAccess(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.m[id]
	if !ok {
		return nil
	}
	c.TotalAccesses++
	c.LastAccessAt = &at
	r.m[id] = c
	return nil
}

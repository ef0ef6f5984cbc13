package repository

import (
	"context"
	"sync"

	"safeguard/backend/internal/audit/domain"
)

// MemoryRepository is an in-memory Repository implementation for tests and
// database-less deployments.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry
}

// NewMemoryRepository returns an empty in-memory audit repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create appends the entry.
func (r *MemoryRepository) Create(ctx context.Context, e *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

// ListRecent returns the most recent entries, newest first.
func (r *MemoryRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*domain.Entry, 0, n)
	for i := len(r.entries) - 1; i >= 0 && len(out) < n; i-- {
		cp := *r.entries[i]
		out = append(out, &cp)
	}
	return out, nil
}

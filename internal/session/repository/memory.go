package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"safeguard/backend/internal/session/domain"
)

// MemoryRepository is an in-memory Repository implementation, used in tests
// and in deployments without a database.
type MemoryRepository struct {
	mu sync.RWMutex
	m  map[string]domain.Session
}

// NewMemoryRepository returns an empty in-memory session repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{m: make(map[string]domain.Session)}
}

// GetByID returns the session for id, or nil if not found.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// List returns all sessions, newest first.
func (r *MemoryRepository) List(ctx context.Context) ([]*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Session, 0, len(r.m))
	for _, s := range r.m {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Create persists the session.
func (r *MemoryRepository) Create(ctx context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[s.ID] = *s
	return nil
}

// Delete removes the session.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}

// RecordAccess increments the session's access count and stamps the time.
// The mutex is the serialization point for concurrent resolvers.
func (r *MemoryRepository) RecordAccess(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[id]
	if !ok {
		return nil
	}
	s.AccessCount++
	s.LastAccessedAt = &at
	r.m[id] = s
	return nil
}

// Deactivate sets the session inactive.
func (r *MemoryRepository) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[id]
	if !ok {
		return nil
	}
	s.Active = false
	r.m[id] = s
	return nil
}

// DeactivateByAudience deactivates every active session whose audience includes the contact.
func (r *MemoryRepository) DeactivateByAudience(ctx context.Context, contactID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.m {
		if s.Active && (&s).Includes(contactID) {
			s.Active = false
			r.m[id] = s
		}
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"safeguard/backend/internal/session/domain"
)

// Repository defines persistence for emergency sessions.
type Repository interface {
	// GetByID returns the session for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// List returns all sessions, newest first.
	List(ctx context.Context) ([]*domain.Session, error)
	// Create persists a new session. The session must have ID set.
	Create(ctx context.Context, s *domain.Session) error
	// Delete removes the session; used for retention eviction.
	Delete(ctx context.Context, id string) error
	// RecordAccess atomically increments the session's access count and stamps
	// the access time. Safe for concurrent resolvers of the same session.
	RecordAccess(ctx context.Context, id string, at time.Time) error
	// Deactivate sets the session inactive. Irreversible within its lifetime.
	Deactivate(ctx context.Context, id string) error
	// DeactivateByAudience deactivates every active session whose audience
	// includes the contact.
	DeactivateByAudience(ctx context.Context, contactID string) error
}

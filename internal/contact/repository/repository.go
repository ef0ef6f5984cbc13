package repository

import (
	"context"
	"time"

	"safeguard/backend/internal/contact/domain"
)

// Repository defines persistence for contacts and their grants.
type Repository interface {
	// GetByID returns the contact for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	// List returns all contacts ordered by creation time.
	List(ctx context.Context) ([]*domain.Contact, error)
	// Create persists a new contact. The contact must have ID set.
	Create(ctx context.Context, c *domain.Contact) error
	// Update overwrites the stored contact for c.ID.
	Update(ctx context.Context, c *domain.Contact) error
	// Delete removes the contact and its grant. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
	// RecordAccess increments the contact's access counter and stamps the time.
	RecordAccess(ctx context.Context, id string, at time.Time) error
}

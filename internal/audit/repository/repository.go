package repository

import (
	"context"

	"safeguard/backend/internal/audit/domain"
)

// Repository defines persistence for audit entries.
type Repository interface {
	Create(ctx context.Context, e *domain.Entry) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Entry, error)
}

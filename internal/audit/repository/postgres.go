package repository

import (
	"context"
	"database/sql"

	"safeguard/backend/internal/audit/domain"
)

// PostgresRepository implements Repository over the audit_logs table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists one audit entry.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, actor, action, resource, metadata, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.Actor, e.Action, e.Resource, e.Metadata, e.CreatedAt,
	)
	return err
}

// ListRecent returns the most recent entries, newest first.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor, action, resource, metadata, created_at
		 FROM audit_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Resource, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

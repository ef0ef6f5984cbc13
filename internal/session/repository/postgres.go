package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"safeguard/backend/internal/session/domain"
	"safeguard/backend/internal/snapshot"
)

// PostgresRepository implements Repository over the emergency_sessions table.
// Snapshot and audience are stored as JSONB.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, reason, created_at, expires_at, snapshot, audience, access_count, last_accessed_at, active`

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM emergency_sessions WHERE id = $1`, id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// List returns all sessions, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM emergency_sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create persists the session. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	snap, err := json.Marshal(s.Snapshot)
	if err != nil {
		return err
	}
	audience, err := json.Marshal(s.Audience)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO emergency_sessions (`+sessionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		s.ID, s.Reason, s.CreatedAt, s.ExpiresAt, snap, audience,
		s.AccessCount, timeToNullTime(s.LastAccessedAt), s.Active,
	)
	return err
}

// Delete removes the session; used for retention eviction.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM emergency_sessions WHERE id = $1`, id)
	return err
}

// RecordAccess atomically increments the session's access count and stamps the time.
func (r *PostgresRepository) RecordAccess(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE emergency_sessions SET access_count = access_count + 1, last_accessed_at = $2 WHERE id = $1`,
		id, at,
	)
	return err
}

// Deactivate sets the session inactive.
func (r *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE emergency_sessions SET active = FALSE WHERE id = $1`, id)
	return err
}

// DeactivateByAudience deactivates every active session whose audience includes the contact.
func (r *PostgresRepository) DeactivateByAudience(ctx context.Context, contactID string) error {
	id, err := json.Marshal(contactID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE emergency_sessions SET active = FALSE WHERE active AND audience @> $1::jsonb`,
		string(id),
	)
	return err
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (*domain.Session, error) {
	var (
		s              domain.Session
		snap           []byte
		audience       []byte
		lastAccessedAt sql.NullTime
	)
	err := sc.Scan(&s.ID, &s.Reason, &s.CreatedAt, &s.ExpiresAt, &snap, &audience,
		&s.AccessCount, &lastAccessedAt, &s.Active)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snap, &s.Snapshot); err != nil {
		// A corrupt snapshot must not make the session unreadable; fall back
		// to an empty package stamped at creation.
		s.Snapshot = snapshot.Package{Timestamp: s.CreatedAt}
	}
	if err := json.Unmarshal(audience, &s.Audience); err != nil {
		s.Audience = nil
	}
	s.LastAccessedAt = nullTimeToPtr(lastAccessedAt)
	return &s, nil
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}

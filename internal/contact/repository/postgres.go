package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"safeguard/backend/internal/contact/domain"
)

// PostgresRepository implements Repository over the contacts table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a contact repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const contactColumns = `id, name, phone, relation, verified, verified_at, access_level,
	perm_realtime_location, perm_location_history, perm_recordings,
	perm_medical_info, perm_device_status, perm_emergency_alerts,
	last_access_at, total_accesses, granted, granted_at, revoked_at, created_at`

// GetByID returns the contact for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// List returns all contacts ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create persists the contact. The contact must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Contact) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO contacts (`+contactColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		c.ID, c.Name, c.Phone, c.Relation, c.Verified, timeToNullTime(c.VerifiedAt), string(c.AccessLevel),
		c.Permissions.RealtimeLocation, c.Permissions.LocationHistory, c.Permissions.Recordings,
		c.Permissions.MedicalInfo, c.Permissions.DeviceStatus, c.Permissions.EmergencyAlerts,
		timeToNullTime(c.LastAccessAt), c.TotalAccesses,
		c.Grant.Granted, c.Grant.GrantedAt, timeToNullTime(c.Grant.RevokedAt), c.CreatedAt,
	)
	return err
}

// Update overwrites the stored contact for c.ID.
func (r *PostgresRepository) Update(ctx context.Context, c *domain.Contact) error {
	_, err := r.db.ExecContext(ctx, `UPDATE contacts SET
		name = $2, phone = $3, relation = $4, verified = $5, verified_at = $6, access_level = $7,
		perm_realtime_location = $8, perm_location_history = $9, perm_recordings = $10,
		perm_medical_info = $11, perm_device_status = $12, perm_emergency_alerts = $13,
		last_access_at = $14, total_accesses = $15, granted = $16, granted_at = $17, revoked_at = $18
		WHERE id = $1`,
		c.ID, c.Name, c.Phone, c.Relation, c.Verified, timeToNullTime(c.VerifiedAt), string(c.AccessLevel),
		c.Permissions.RealtimeLocation, c.Permissions.LocationHistory, c.Permissions.Recordings,
		c.Permissions.MedicalInfo, c.Permissions.DeviceStatus, c.Permissions.EmergencyAlerts,
		timeToNullTime(c.LastAccessAt), c.TotalAccesses,
		c.Grant.Granted, c.Grant.GrantedAt, timeToNullTime(c.Grant.RevokedAt),
	)
	return err
}

// Delete removes the contact. Deleting an absent id is a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	return err
}

// RecordAccess increments the contact's access counter and stamps the time.
func (r *PostgresRepository) RecordAccess(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET total_accesses = total_accesses + 1, last_access_at = $2 WHERE id = $1`,
		id, at,
	)
	return err
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (*domain.Contact, error) {
	var (
		c            domain.Contact
		accessLevel  string
		verifiedAt   sql.NullTime
		lastAccessAt sql.NullTime
		revokedAt    sql.NullTime
	)
	err := s.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Relation, &c.Verified, &verifiedAt, &accessLevel,
		&c.Permissions.RealtimeLocation, &c.Permissions.LocationHistory, &c.Permissions.Recordings,
		&c.Permissions.MedicalInfo, &c.Permissions.DeviceStatus, &c.Permissions.EmergencyAlerts,
		&lastAccessAt, &c.TotalAccesses, &c.Grant.Granted, &c.Grant.GrantedAt, &revokedAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.AccessLevel = domain.AccessLevel(accessLevel)
	c.VerifiedAt = nullTimeToPtr(verifiedAt)
	c.LastAccessAt = nullTimeToPtr(lastAccessAt)
	c.Grant.RevokedAt = nullTimeToPtr(revokedAt)
	return &c, nil
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

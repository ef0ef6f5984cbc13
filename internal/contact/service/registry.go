// Package service implements the contact registry: contact lifecycle,
// verification, permissions, and access revocation with its session cascade.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"safeguard/backend/internal/audit"
	"safeguard/backend/internal/contact/domain"
)

// Sentinel errors for the registry; the handler maps them to HTTP statuses.
var (
	ErrValidation = errors.New("invalid contact input")
	ErrNotFound   = errors.New("contact not found")
)

// phoneDigit requires at least one digit in a phone number; formatting beyond
// that is left to the dialer.
var phoneDigit = regexp.MustCompile(`[0-9]`)

// ContactRepo is the minimal contact repository needed by the registry.
type ContactRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context) ([]*domain.Contact, error)
	Create(ctx context.Context, c *domain.Contact) error
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, id string) error
}

// SessionDeactivator deactivates every active session whose audience includes
// the contact. Implemented by the session broker.
type SessionDeactivator interface {
	DeactivateAllFor(ctx context.Context, contactID string) error
}

// Registry owns the contact set, verification state, and per-contact grants.
type Registry struct {
	repo        ContactRepo
	sessions    SessionDeactivator
	auditLogger audit.Logger
	nowF        func() time.Time
}

// NewRegistry returns a Registry with the given dependencies. sessions and
// auditLogger may be nil; the revocation cascade and audit trail are then skipped.
func NewRegistry(repo ContactRepo, sessions SessionDeactivator, auditLogger audit.Logger) *Registry {
	return &Registry{
		repo:        repo,
		sessions:    sessions,
		auditLogger: auditLogger,
		nowF:        func() time.Time { return time.Now().UTC() },
	}
}

// SetSessions wires the session deactivator after construction. The registry
// and the broker reference each other, so one side is attached late.
func (r *Registry) SetSessions(sessions SessionDeactivator) {
	r.sessions = sessions
}

// SetNow overrides the clock; used by tests.
func (r *Registry) SetNow(nowF func() time.Time) {
	r.nowF = nowF
}

// Add creates an unverified contact with full access, all permission flags
// enabled, and an active grant.
func (r *Registry) Add(ctx context.Context, name, phone, relation string) (*domain.Contact, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if !phoneDigit.MatchString(phone) {
		return nil, fmt.Errorf("%w: phone must contain a digit", ErrValidation)
	}

	now := r.nowF()
	c := &domain.Contact{
		ID:          uuid.New().String(),
		Name:        name,
		Phone:       phone,
		Relation:    strings.TrimSpace(relation),
		Verified:    false,
		AccessLevel: domain.AccessFull,
		Permissions: domain.AllPermissions(),
		Grant:       domain.Grant{Granted: true, GrantedAt: now},
		CreatedAt:   now,
	}
	if err := r.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	r.logEvent(ctx, "add", c.ID)
	return c, nil
}

// Verify marks the contact verified and stamps VerifiedAt. The transition is
// monotonic: verifying an already-verified contact is a no-op that keeps the
// original timestamp.
func (r *Registry) Verify(ctx context.Context, id string) (*domain.Contact, error) {
	c, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if c.Verified {
		return c, nil
	}
	now := r.nowF()
	c.Verified = true
	c.VerifiedAt = &now
	if err := r.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	r.logEvent(ctx, "verify", id)
	return c, nil
}

// Remove deletes the contact and its grant. Removing an unknown id is a no-op;
// deletion is safe to call unconditionally.
func (r *Registry) Remove(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.logEvent(ctx, "remove", id)
	return nil
}

// SetPermissions merges the patch into the contact's permission set.
func (r *Registry) SetPermissions(ctx context.Context, id string, patch domain.PermissionPatch) (*domain.Contact, error) {
	c, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	c.Permissions = c.Permissions.Merge(patch)
	if err := r.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	r.logEvent(ctx, "set_permissions", id)
	return c, nil
}

// Revoke turns off the contact's grant, stamps RevokedAt, and deactivates
// every active session whose audience includes the contact.
func (r *Registry) Revoke(ctx context.Context, id string) (*domain.Contact, error) {
	c, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	now := r.nowF()
	c.Grant.Granted = false
	c.Grant.RevokedAt = &now
	if err := r.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	if r.sessions != nil {
		if err := r.sessions.DeactivateAllFor(ctx, id); err != nil {
			return nil, err
		}
	}
	r.logEvent(ctx, "revoke", id)
	return c, nil
}

// Get returns the contact for id, or ErrNotFound.
func (r *Registry) Get(ctx context.Context, id string) (*domain.Contact, error) {
	c, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// List returns all contacts ordered by creation time.
func (r *Registry) List(ctx context.Context) ([]*domain.Contact, error) {
	return r.repo.List(ctx)
}

func (r *Registry) logEvent(ctx context.Context, action, contactID string) {
	if r.auditLogger == nil {
		return
	}
	r.auditLogger.LogEvent(ctx, "registry", action, "contact:"+contactID, "")
}

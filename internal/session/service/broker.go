// Package service implements the session broker: on any emergency trigger it
// snapshots current state into an immutable package, mints a time-boxed access
// session scoped by contact permissions, and tracks access and revocation.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"safeguard/backend/internal/audit"
	contactdomain "safeguard/backend/internal/contact/domain"
	"safeguard/backend/internal/notify"
	"safeguard/backend/internal/session/domain"
	"safeguard/backend/internal/snapshot"
	"safeguard/backend/internal/telemetry/otel"
)

// Sentinel errors for the broker; the handler maps them to HTTP statuses.
var (
	// ErrNotFound is returned when the session or requesting contact is unknown.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when the session is past its TTL or deactivated.
	ErrExpired = errors.New("session expired or inactive")
)

// maxRetainedSessions bounds the session list; oldest are evicted.
const maxRetainedSessions = 10

// SessionRepo is the minimal session repository needed by the broker.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	List(ctx context.Context) ([]*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
	RecordAccess(ctx context.Context, id string, at time.Time) error
	Deactivate(ctx context.Context, id string) error
	DeactivateByAudience(ctx context.Context, contactID string) error
}

// ContactRepo is the minimal contact repository needed by the broker.
type ContactRepo interface {
	GetByID(ctx context.Context, id string) (*contactdomain.Contact, error)
	List(ctx context.Context) ([]*contactdomain.Contact, error)
	RecordAccess(ctx context.Context, id string, at time.Time) error
}

// Broker owns the emergency-session lifecycle.
type Broker struct {
	sessions    SessionRepo
	contacts    ContactRepo
	emitter     notify.Emitter
	auditLogger audit.Logger
	metrics     *otel.BrokerMetrics

	accessURLBase string
	sessionTTL    time.Duration
	silent        bool
	nowF          func() time.Time
}

// NewBroker returns a Broker. emitter, auditLogger, and metrics may be nil;
// those concerns are then skipped.
func NewBroker(sessions SessionRepo, contacts ContactRepo, emitter notify.Emitter, auditLogger audit.Logger, metrics *otel.BrokerMetrics, accessURLBase string, sessionTTL time.Duration, silent bool) *Broker {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Broker{
		sessions:      sessions,
		contacts:      contacts,
		emitter:       emitter,
		auditLogger:   auditLogger,
		metrics:       metrics,
		accessURLBase: strings.TrimRight(accessURLBase, "/"),
		sessionTTL:    sessionTTL,
		silent:        silent,
		nowF:          func() time.Time { return time.Now().UTC() },
	}
}

// SetNow overrides the clock; used by tests.
func (b *Broker) SetNow(nowF func() time.Time) {
	b.nowF = nowF
}

// AccessURL returns the opaque access URL for a session id.
func (b *Broker) AccessURL(sessionID string) string {
	return b.accessURLBase + "/access/" + sessionID
}

// Trigger opens an emergency session for the given reason. This path is
// safety-critical and never fails on data-composition problems: whatever
// could not be gathered is recorded as an explicit placeholder. Notification
// payloads go to every verified, granted contact with the alert permission,
// excluding the reserved emergency-services contact; delivery itself is
// fire-and-forget.
func (b *Broker) Trigger(ctx context.Context, reason string, in snapshot.Inputs) (*domain.Session, string, error) {
	now := b.nowF()
	in.Now = now

	roster, err := b.contacts.List(ctx)
	if err != nil {
		// Degrade rather than abort: the session still opens without a roster.
		log.Printf("broker: contact list unavailable for trigger: %v", err)
		roster = nil
	}
	in.Contacts = roster

	audience := make([]string, 0, len(roster))
	for _, c := range roster {
		if c.Grant.Granted {
			audience = append(audience, c.ID)
		}
	}

	s := &domain.Session{
		ID:        uuid.New().String(),
		Reason:    reason,
		CreatedAt: now,
		ExpiresAt: now.Add(b.sessionTTL),
		Snapshot:  snapshot.Build(in),
		Audience:  audience,
		Active:    true,
	}
	if err := b.sessions.Create(ctx, s); err != nil {
		return nil, "", err
	}
	b.evictBeyondRetention(ctx)

	accessURL := b.AccessURL(s.ID)
	b.notifyContacts(ctx, s, reason, in, accessURL, roster)

	if b.metrics != nil {
		b.metrics.SessionsOpened.Add(ctx, 1)
	}
	b.logEvent(ctx, "trigger", "session:"+s.ID, reason)
	return s, accessURL, nil
}

// Resolve returns the session's snapshot filtered down to what the requesting
// contact's permissions allow, and records the access. Activity and expiry
// are re-checked on every call; there is no background sweep.
func (b *Broker) Resolve(ctx context.Context, sessionID, contactID string) (snapshot.Package, error) {
	s, err := b.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return snapshot.Package{}, err
	}
	if s == nil {
		b.countDenied(ctx)
		return snapshot.Package{}, ErrNotFound
	}
	if !s.Resolvable(b.nowF()) {
		b.countDenied(ctx)
		return snapshot.Package{}, ErrExpired
	}

	c, err := b.contacts.GetByID(ctx, contactID)
	if err != nil {
		return snapshot.Package{}, err
	}
	if c == nil {
		b.countDenied(ctx)
		return snapshot.Package{}, ErrNotFound
	}
	if !c.Grant.Granted {
		b.countDenied(ctx)
		return snapshot.Package{}, ErrExpired
	}

	now := b.nowF()
	if err := b.sessions.RecordAccess(ctx, sessionID, now); err != nil {
		return snapshot.Package{}, err
	}
	if err := b.contacts.RecordAccess(ctx, contactID, now); err != nil {
		log.Printf("broker: contact access stamp failed: %v", err)
	}

	if b.metrics != nil {
		b.metrics.SessionsResolved.Add(ctx, 1)
	}
	b.logEvent(ctx, "resolve", "session:"+sessionID, "contact:"+contactID)
	return snapshot.FilterFor(s.Snapshot, c.Permissions), nil
}

// Deactivate sets the session inactive. Irreversible within its lifetime.
func (b *Broker) Deactivate(ctx context.Context, sessionID string) error {
	s, err := b.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNotFound
	}
	if err := b.sessions.Deactivate(ctx, sessionID); err != nil {
		return err
	}
	b.logEvent(ctx, "deactivate", "session:"+sessionID, "")
	return nil
}

// DeactivateAllFor deactivates every active session whose audience includes
// the contact; called by the contact registry on revocation.
func (b *Broker) DeactivateAllFor(ctx context.Context, contactID string) error {
	if err := b.sessions.DeactivateByAudience(ctx, contactID); err != nil {
		return err
	}
	b.logEvent(ctx, "deactivate_all", "contact:"+contactID, "")
	return nil
}

// CancelLatest deactivates the most recent active session (panic cancel).
// Returns ErrNotFound when no active session exists.
func (b *Broker) CancelLatest(ctx context.Context) (*domain.Session, error) {
	list, err := b.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		if s.Active {
			if err := b.sessions.Deactivate(ctx, s.ID); err != nil {
				return nil, err
			}
			b.logEvent(ctx, "cancel", "session:"+s.ID, "")
			s.Active = false
			return s, nil
		}
	}
	return nil, ErrNotFound
}

// List returns all retained sessions, newest first.
func (b *Broker) List(ctx context.Context) ([]*domain.Session, error) {
	return b.sessions.List(ctx)
}

func (b *Broker) evictBeyondRetention(ctx context.Context) {
	list, err := b.sessions.List(ctx)
	if err != nil {
		log.Printf("broker: retention sweep failed: %v", err)
		return
	}
	for i := maxRetainedSessions; i < len(list); i++ {
		if err := b.sessions.Delete(ctx, list[i].ID); err != nil {
			log.Printf("broker: evicting session %s failed: %v", list[i].ID, err)
		}
	}
}

func (b *Broker) notifyContacts(ctx context.Context, s *domain.Session, reason string, in snapshot.Inputs, accessURL string, roster []*contactdomain.Contact) {
	if b.emitter == nil {
		return
	}
	msg := notify.ComposeAlert(reason, in.Current, s.CreatedAt, accessURL, b.silent)
	for _, c := range roster {
		if !c.Notifiable() {
			continue
		}
		notify.EmitAsync(b.emitter, ctx, &notify.Payload{
			ContactID:   c.ID,
			ContactName: c.Name,
			Phone:       c.Phone,
			Message:     msg,
			Kind:        "alert",
			SessionID:   s.ID,
			CreatedAt:   s.CreatedAt,
		})
		if b.metrics != nil {
			b.metrics.AlertsPublished.Add(ctx, 1)
		}
	}
}

// NotifyCheckIn publishes a check-in message to every notifiable contact.
// Called by the application when the safety timer is checked in.
func (b *Broker) NotifyCheckIn(ctx context.Context, in snapshot.Inputs) {
	if b.emitter == nil {
		return
	}
	roster, err := b.contacts.List(ctx)
	if err != nil {
		log.Printf("broker: contact list unavailable for check-in: %v", err)
		return
	}
	now := b.nowF()
	msg := notify.ComposeCheckIn(in.Current, now, in.Battery)
	for _, c := range roster {
		if !c.Notifiable() {
			continue
		}
		notify.EmitAsync(b.emitter, ctx, &notify.Payload{
			ContactID:   c.ID,
			ContactName: c.Name,
			Phone:       c.Phone,
			Message:     msg,
			Kind:        "checkin",
			CreatedAt:   now,
		})
	}
}

func (b *Broker) countDenied(ctx context.Context) {
	if b.metrics != nil {
		b.metrics.ResolvesDenied.Add(ctx, 1)
	}
}

func (b *Broker) logEvent(ctx context.Context, action, resource, metadata string) {
	if b.auditLogger == nil {
		return
	}
	b.auditLogger.LogEvent(ctx, "broker", action, resource, metadata)
}

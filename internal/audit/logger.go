// Package audit records a best-effort trail of safety-relevant actions
// (contact changes, triggers, session access).
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"safeguard/backend/internal/audit/domain"
	auditrepo "safeguard/backend/internal/audit/repository"
)

// Logger writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type Logger interface {
	LogEvent(ctx context.Context, actor, action, resource, metadata string)
}

// Recorder implements Logger using the audit repository.
type Recorder struct {
	repo auditrepo.Repository
	nowF func() time.Time
}

// NewRecorder returns a Logger that persists to repo. repo may be nil; events
// are then dropped.
func NewRecorder(repo auditrepo.Repository) *Recorder {
	return &Recorder{repo: repo, nowF: func() time.Time { return time.Now().UTC() }}
}

// LogEvent writes one audit entry. Best-effort: errors are logged and not returned.
func (r *Recorder) LogEvent(ctx context.Context, actor, action, resource, metadata string) {
	if r == nil || r.repo == nil {
		return
	}
	entry := &domain.Entry{
		ID:        uuid.New().String(),
		Actor:     actor,
		Action:    action,
		Resource:  resource,
		Metadata:  metadata,
		CreatedAt: r.nowF(),
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, resource, err)
	}
}

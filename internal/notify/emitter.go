// Package notify composes outgoing safety messages and hands them to the
// external delivery pipeline. Delivery is best-effort and fire-and-forget;
// the core never waits on transport acknowledgement.
package notify

import (
	"context"
	"time"
)

// Payload is one composed message addressed to one contact.
type Payload struct {
	ContactID   string    `json:"contactId"`
	ContactName string    `json:"contactName"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	Kind        string    `json:"kind"` // "alert" or "checkin"
	SessionID   string    `json:"sessionId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Emitter hands a payload to the delivery pipeline (e.g. Kafka).
// Best-effort; callers log and ignore errors.
type Emitter interface {
	Emit(ctx context.Context, p *Payload) error
}

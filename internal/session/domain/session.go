// Package domain holds the emergency-session model.
package domain

import (
	"time"

	"safeguard/backend/internal/snapshot"
)

// Session is a time-boxed, permission-filtered read view over a safety-data
// snapshot. Immutable after creation except for AccessCount, LastAccessedAt,
// and Active.
type Session struct {
	ID             string
	Reason         string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	Snapshot       snapshot.Package
	Audience       []string // contact ids scoped into the session at creation
	AccessCount    int
	LastAccessedAt *time.Time // nil until first access
	Active         bool
}

// Resolvable reports whether the session can still be read at the given time.
// Both conditions are re-checked on every access attempt (lazy expiry).
func (s *Session) Resolvable(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}

// Includes reports whether the contact is part of the session's audience.
func (s *Session) Includes(contactID string) bool {
	for _, id := range s.Audience {
		if id == contactID {
			return true
		}
	}
	return false
}

package domain

import "time"

// Entry represents a single audit event.
type Entry struct {
	ID        string
	Actor     string
	Action    string
	Resource  string
	Metadata  string
	CreatedAt time.Time
}

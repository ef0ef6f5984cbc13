// Package media tracks recording metadata handed to the core by the external
// capture collaborator. The core never touches raw media bytes.
package media

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"safeguard/backend/internal/location"
)

// Recording is capture metadata for one audio/video/photo artifact.
type Recording struct {
	ID              string           `json:"id"`
	Type            string           `json:"type"` // e.g. "audio", "video", "photo"
	Timestamp       time.Time        `json:"timestamp"`
	Location        *location.Sample `json:"location,omitempty"`
	DurationSeconds int              `json:"durationSeconds,omitempty"`
	SizeBytes       int64            `json:"sizeBytes"`
}

// Library holds recording metadata, newest first.
type Library struct {
	mu   sync.RWMutex
	recs []Recording
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{}
}

// Add prepends the recording. A missing id is filled in.
func (l *Library) Add(rec Recording) Recording {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recs = append([]Recording{rec}, l.recs...)
	return rec
}

// List returns up to limit recordings, newest first. limit <= 0 returns all.
func (l *Library) List(limit int) []Recording {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := len(l.recs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Recording, n)
	copy(out, l.recs[:n])
	return out
}

package audit

import (
	"context"
	"testing"
	"time"

	auditrepo "safeguard/backend/internal/audit/repository"
)

func TestLogEvent_PersistsEntry(t *testing.T) {
	repo := auditrepo.NewMemoryRepository()
	rec := NewRecorder(repo)
	ctx := context.Background()

	rec.LogEvent(ctx, "registry", "verify", "contact:abc", "")

	entries, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.ID == "" {
		t.Error("ID should be assigned")
	}
	if e.Actor != "registry" || e.Action != "verify" || e.Resource != "contact:abc" {
		t.Errorf("entry = %+v", e)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped")
	}
}

func TestLogEvent_NilRepoIsNoOp(t *testing.T) {
	rec := NewRecorder(nil)
	// Must not panic; the trail is best-effort.
	rec.LogEvent(context.Background(), "broker", "trigger", "session:1", "reason")
}

func TestListRecent_NewestFirst(t *testing.T) {
	repo := auditrepo.NewMemoryRepository()
	rec := NewRecorder(repo)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec.nowF = func() time.Time { return base }
	rec.LogEvent(ctx, "registry", "add", "contact:1", "")
	rec.nowF = func() time.Time { return base.Add(time.Minute) }
	rec.LogEvent(ctx, "registry", "verify", "contact:1", "")

	entries, _ := repo.ListRecent(ctx, 1)
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
	if entries[0].Action != "verify" {
		t.Errorf("newest action = %q, want verify", entries[0].Action)
	}
}

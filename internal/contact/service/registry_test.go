package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"safeguard/backend/internal/contact/domain"
	"safeguard/backend/internal/contact/repository"
)

// fakeDeactivator records revocation cascades.
type fakeDeactivator struct {
	deactivated []string
}

func (f *fakeDeactivator) DeactivateAllFor(_ context.Context, contactID string) error {
	f.deactivated = append(f.deactivated, contactID)
	return nil
}

func newTestRegistry() (*Registry, *fakeDeactivator) {
	sessions := &fakeDeactivator{}
	return NewRegistry(repository.NewMemoryRepository(), sessions, nil), sessions
}

func TestAdd_CreatesUnverifiedContactWithFullGrant(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	c, err := r.Add(ctx, "Mom", "+1234567890", "family")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if c.ID == "" {
		t.Error("ID should be assigned")
	}
	if c.Verified {
		t.Error("new contact should be unverified")
	}
	if c.VerifiedAt != nil {
		t.Error("VerifiedAt should be nil until verified")
	}
	if c.AccessLevel != domain.AccessFull {
		t.Errorf("AccessLevel = %v, want full", c.AccessLevel)
	}
	if c.Permissions != domain.AllPermissions() {
		t.Errorf("Permissions = %+v, want all enabled", c.Permissions)
	}
	if !c.Grant.Granted {
		t.Error("grant should be active")
	}
}

func TestAdd_Validation(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	cases := []struct {
		name  string
		cname string
		phone string
	}{
		{"empty name", "", "+1234567890"},
		{"whitespace name", "   ", "+1234567890"},
		{"empty phone", "Mom", ""},
		{"phone without digits", "Mom", "not-a-number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := r.Add(ctx, tc.cname, tc.phone, ""); !errors.Is(err, ErrValidation) {
				t.Errorf("Add(%q, %q) error = %v, want ErrValidation", tc.cname, tc.phone, err)
			}
		})
	}
}

func TestVerify_IsMonotonicAndIdempotent(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	c, _ := r.Add(ctx, "Mom", "+1234567890", "family")

	first, err := r.Verify(ctx, c.ID)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !first.Verified || first.VerifiedAt == nil {
		t.Fatal("contact should be verified with a timestamp")
	}
	stamp := *first.VerifiedAt

	// Clock moves on, but a second verify keeps the original timestamp.
	r.SetNow(func() time.Time { return stamp.Add(time.Hour) })
	second, err := r.Verify(ctx, c.ID)
	if err != nil {
		t.Fatalf("Verify (second): %v", err)
	}
	if !second.VerifiedAt.Equal(stamp) {
		t.Errorf("VerifiedAt = %v, want original %v", second.VerifiedAt, stamp)
	}
}

func TestVerify_UnknownContact(t *testing.T) {
	r, _ := newTestRegistry()

	if _, err := r.Verify(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Verify(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestRemove_UnknownContactIsNoOp(t *testing.T) {
	r, _ := newTestRegistry()

	if err := r.Remove(context.Background(), "nope"); err != nil {
		t.Errorf("Remove(unknown) = %v, want nil", err)
	}
}

func TestRemove_DeletesContact(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	c, _ := r.Add(ctx, "Mom", "+1234567890", "family")
	if err := r.Remove(ctx, c.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := r.Get(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove error = %v, want ErrNotFound", err)
	}
}

func TestSetPermissions_MergesPatch(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	c, _ := r.Add(ctx, "Mom", "+1234567890", "family")

	off := false
	updated, err := r.SetPermissions(ctx, c.ID, domain.PermissionPatch{MedicalInfo: &off})
	if err != nil {
		t.Fatalf("SetPermissions: %v", err)
	}
	if updated.Permissions.MedicalInfo {
		t.Error("MedicalInfo should be off after patch")
	}
	// Untouched flags survive the merge.
	if !updated.Permissions.RealtimeLocation || !updated.Permissions.EmergencyAlerts {
		t.Errorf("Permissions = %+v, other flags should be unchanged", updated.Permissions)
	}
}

func TestRevoke_CascadesToSessions(t *testing.T) {
	r, sessions := newTestRegistry()
	ctx := context.Background()

	c, _ := r.Add(ctx, "Mom", "+1234567890", "family")

	revoked, err := r.Revoke(ctx, c.ID)
	if err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if revoked.Grant.Granted {
		t.Error("grant should be off after revoke")
	}
	if revoked.Grant.RevokedAt == nil {
		t.Error("RevokedAt should be stamped")
	}
	if len(sessions.deactivated) != 1 || sessions.deactivated[0] != c.ID {
		t.Errorf("deactivated = %v, want [%s]", sessions.deactivated, c.ID)
	}
}

func TestList_OrderedByCreation(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.SetNow(func() time.Time { return base })
	_, _ = r.Add(ctx, "Mom", "+1234567890", "family")
	r.SetNow(func() time.Time { return base.Add(time.Minute) })
	_, _ = r.Add(ctx, "Dad", "+1234567891", "family")

	list, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Name != "Mom" || list[1].Name != "Dad" {
		t.Errorf("order = [%s, %s], want [Mom, Dad]", list[0].Name, list[1].Name)
	}
}

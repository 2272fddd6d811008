package session

import (
	"strings"
	"testing"
)

func TestRegisterAssignsPlaceholderName(t *testing.T) {
	r := NewRegistry()

	s, err := r.Register("conn-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if s.ID != "conn-1" {
		t.Fatalf("expected id conn-1, got %q", s.ID)
	}
	if !strings.HasPrefix(s.DisplayName, "User") {
		t.Fatalf("expected generated placeholder name, got %q", s.DisplayName)
	}
	if s.DisplayName != s.DefaultDisplayName() {
		t.Fatalf("display name %q should equal default %q at creation", s.DisplayName, s.DefaultDisplayName())
	}
	if s.Role != RoleNone {
		t.Fatalf("expected RoleNone, got %q", s.Role)
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Register("conn-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := r.Register("conn-1"); err == nil {
		t.Fatal("expected error for duplicate connection id")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", r.Len())
	}
}

func TestRenameAndRestore(t *testing.T) {
	r := NewRegistry()
	s, err := r.Register("conn-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	placeholder := s.DisplayName

	if got := r.Rename("conn-1", "alice"); got == nil || got.DisplayName != "alice" {
		t.Fatalf("expected rename to alice, got %+v", got)
	}

	// Empty name restores the placeholder.
	if got := r.Rename("conn-1", ""); got == nil || got.DisplayName != placeholder {
		t.Fatalf("expected restore to %q, got %+v", placeholder, got)
	}
}

func TestRenameUnknownSession(t *testing.T) {
	r := NewRegistry()

	if got := r.Rename("ghost", "alice"); got != nil {
		t.Fatalf("expected nil for unknown session, got %+v", got)
	}
}

func TestEscalateIsIdempotent(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Register("conn-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	first := r.Escalate("conn-1", Role("admin"), "[admin] alice")
	second := r.Escalate("conn-1", Role("admin"), "[admin] alice")

	if first == nil || second == nil {
		t.Fatal("expected escalation to succeed")
	}
	if second.Role != Role("admin") || second.DisplayName != "[admin] alice" {
		t.Fatalf("unexpected state after repeated escalation: %+v", second)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Register("conn-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if !r.Remove("conn-1") {
		t.Fatal("expected first removal to report true")
	}
	if r.Remove("conn-1") {
		t.Fatal("expected second removal to be a no-op")
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d sessions", r.Len())
	}
}

func TestSnapshotOrderedByName(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"c1", "c2", "c3"} {
		if _, err := r.Register(id); err != nil {
			t.Fatalf("Register %s: %v", id, err)
		}
	}
	r.Rename("c1", "zoe")
	r.Rename("c2", "adam")
	r.Rename("c3", "mia")

	roster := r.Snapshot()
	if len(roster) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(roster))
	}

	want := []string{"adam", "mia", "zoe"}
	for i, name := range want {
		if roster[i].DisplayName != name {
			t.Fatalf("expected %q at position %d, got %q", name, i, roster[i].DisplayName)
		}
	}
}

func TestRoleSemantics(t *testing.T) {
	cases := []struct {
		role Role
		want bool
	}{
		{RoleNone, false},
		{Role(""), false},
		{Role("admin"), true},
		{Role("developer"), true},
		{Role("serverOwner"), true},
	}

	for _, tc := range cases {
		if got := tc.role.Privileged(); got != tc.want {
			t.Fatalf("Role(%q).Privileged() = %v, want %v", tc.role, got, tc.want)
		}
	}
}

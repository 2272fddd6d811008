package chat

import (
	"strings"
	"testing"

	"chatrelay/internal/app/session"
	"chatrelay/internal/pkg/errs"
)

func testSession(id, name string, role session.Role) *session.Session {
	return &session.Session{ID: id, DisplayName: name, Role: role}
}

func TestSubmitComposesFromSessionState(t *testing.T) {
	b := NewBroadcaster(100)
	sess := testSession("c1", "alice", session.RoleNone)

	msg, customErr := b.Submit(sess, "hello", false)
	if customErr != nil {
		t.Fatalf("Submit: %v", customErr)
	}

	if msg.Author != "alice" {
		t.Fatalf("expected author alice, got %q", msg.Author)
	}
	if msg.AuthorRole != session.RoleNone {
		t.Fatalf("expected RoleNone, got %q", msg.AuthorRole)
	}
	if msg.Text != "hello" {
		t.Fatalf("expected text hello, got %q", msg.Text)
	}
	if msg.ID == "" || msg.Timestamp == 0 {
		t.Fatalf("expected id and timestamp, got %+v", msg)
	}

	history := b.History()
	if len(history) != 1 || history[0].ID != msg.ID {
		t.Fatalf("expected message in history, got %+v", history)
	}
}

func TestSubmitRejectedWhileLocked(t *testing.T) {
	b := NewBroadcaster(100)
	sess := testSession("c1", "alice", session.RoleNone)

	_, customErr := b.Submit(sess, "hello", true)
	if customErr == nil || customErr.Code != errs.ErrChatLocked {
		t.Fatalf("expected ErrChatLocked, got %v", customErr)
	}
	if len(b.History()) != 0 {
		t.Fatal("rejected message must not enter history")
	}
}

func TestSubmitPrivilegedBypassesLock(t *testing.T) {
	b := NewBroadcaster(100)
	sess := testSession("c1", "[admin] alice", session.Role("admin"))

	msg, customErr := b.Submit(sess, "still here", true)
	if customErr != nil {
		t.Fatalf("Submit: %v", customErr)
	}
	if len(b.History()) != 1 || b.History()[0].ID != msg.ID {
		t.Fatal("privileged message should be appended while locked")
	}
}

func TestSubmitTooLong(t *testing.T) {
	b := NewBroadcaster(100)
	sess := testSession("c1", "alice", session.RoleNone)

	_, customErr := b.Submit(sess, strings.Repeat("x", MaxContentBytes+1), false)
	if customErr == nil || customErr.Code != errs.ErrMessageTooLong {
		t.Fatalf("expected ErrMessageTooLong, got %v", customErr)
	}
	if len(b.History()) != 0 {
		t.Fatal("rejected message must not enter history")
	}
}

func TestHistoryEviction(t *testing.T) {
	b := NewBroadcaster(3)
	sess := testSession("c1", "alice", session.RoleNone)

	for _, text := range []string{"one", "two", "three", "four"} {
		if _, customErr := b.Submit(sess, text, false); customErr != nil {
			t.Fatalf("Submit %q: %v", text, customErr)
		}
	}

	history := b.History()
	if len(history) != 3 {
		t.Fatalf("expected capped history of 3, got %d", len(history))
	}

	want := []string{"two", "three", "four"}
	for i, text := range want {
		if history[i].Text != text {
			t.Fatalf("expected %q at position %d, got %q", text, i, history[i].Text)
		}
	}
}

func TestAnnounceSystemAuthoredAndNotAppended(t *testing.T) {
	b := NewBroadcaster(100)

	msg := b.Announce("maintenance at noon")
	if msg.Author != SystemAuthor {
		t.Fatalf("expected system author %q, got %q", SystemAuthor, msg.Author)
	}
	if msg.AuthorRole != "" {
		t.Fatalf("announcements carry no operator identity, got role %q", msg.AuthorRole)
	}
	if len(b.History()) != 0 {
		t.Fatal("announcements must not enter history")
	}
}

func TestClear(t *testing.T) {
	b := NewBroadcaster(100)
	sess := testSession("c1", "alice", session.RoleNone)

	if _, customErr := b.Submit(sess, "hello", false); customErr != nil {
		t.Fatalf("Submit: %v", customErr)
	}

	b.Clear()

	if len(b.History()) != 0 {
		t.Fatal("expected empty history after Clear")
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	b := NewBroadcaster(100)
	sess := testSession("c1", "alice", session.RoleNone)

	if _, customErr := b.Submit(sess, "hello", false); customErr != nil {
		t.Fatalf("Submit: %v", customErr)
	}

	snapshot := b.History()
	snapshot[0].Text = "mutated"

	if b.History()[0].Text != "hello" {
		t.Fatal("History must return a copy, not the backing slice")
	}
}

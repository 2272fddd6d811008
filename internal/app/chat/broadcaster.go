/*
Package chat contains the core logic of the relay.

This file defines the Message model and the Broadcaster, which composes
messages and owns the append-only history replayed to new sessions.
*/
package chat

import (
	"time"

	"chatrelay/internal/app/session"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/randx"
)

const (
	// MaxContentBytes is the maximum length of message content.
	MaxContentBytes = 5000

	// SystemAuthor is the fixed author label of announcements. Operators
	// stay anonymous: announcements are attributable to the system only.
	SystemAuthor = "SERVERHOST"
)

// Message is one chat message. Messages are immutable once appended; their
// order in history is the arrival order at the Broadcaster.
type Message struct {
	ID         string       `json:"id"`
	Author     string       `json:"author"`
	AuthorRole session.Role `json:"authorRole,omitempty"`
	Text       string       `json:"text"`
	Timestamp  int64        `json:"timestamp"`
}

// Broadcaster composes chat messages and owns the message history. Like
// the other core components it is owned by the hub's dispatch goroutine,
// which is the single serialization point giving all observers the same
// message order.
type Broadcaster struct {
	limit   int
	history []Message
}

// NewBroadcaster returns a Broadcaster whose history holds at most limit
// messages; appending beyond the cap evicts the oldest entry.
func NewBroadcaster(limit int) *Broadcaster {
	return &Broadcaster{
		limit: limit,
	}
}

// Submit validates a submission from sess and, if accepted, appends the
// composed message to history and returns it. While the chat is locked,
// submissions from sessions without a bypass privilege are rejected with
// ErrChatLocked and leave no trace in history.
func (b *Broadcaster) Submit(sess *session.Session, text string, locked bool) (Message, *errs.CustomError) {
	if locked && !sess.Role.Privileged() {
		return Message{}, errs.NewError(errs.ErrChatLocked)
	}

	if len(text) > MaxContentBytes {
		return Message{}, errs.NewError(errs.ErrMessageTooLong)
	}

	msg := Message{
		ID:         randx.EventID(),
		Author:     sess.DisplayName,
		AuthorRole: sess.Role,
		Text:       text,
		Timestamp:  time.Now().UnixMilli(),
	}
	b.append(msg)

	return msg, nil
}

// Announce composes a system-authored message. Announcements bypass the
// lock entirely and are broadcast without entering history, matching the
// original relay's behavior.
func (b *Broadcaster) Announce(text string) Message {
	return Message{
		ID:        randx.EventID(),
		Author:    SystemAuthor,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Clear empties the history. Clients receive the now-empty history and
// replace, not append.
func (b *Broadcaster) Clear() {
	b.history = nil
}

// History returns an ordered copy of the full history for replay.
func (b *Broadcaster) History() []Message {
	out := make([]Message, len(b.history))
	copy(out, b.history)
	return out
}

func (b *Broadcaster) append(msg Message) {
	b.history = append(b.history, msg)

	if b.limit > 0 && len(b.history) > b.limit {
		// Shift rather than re-slice so the backing array does not pin
		// evicted messages.
		copy(b.history, b.history[1:])
		b.history = b.history[:b.limit]
	}
}

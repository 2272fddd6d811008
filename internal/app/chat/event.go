/*
Package chat contains the core logic of the relay: the hub dispatch loop,
message broadcasting and history, the chat lock, and client connections.

This file defines the wire protocol: the JSON envelope exchanged with
clients and the payload structures of every event kind.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"chatrelay/internal/app/session"
	"chatrelay/internal/pkg/randx"
)

// EventType discriminates the envelope's payload.
type EventType string

// Inbound event types.
const (
	TypeSetUsername       EventType = "SET_USERNAME"
	TypeSignIn            EventType = "SIGN_IN"
	TypeChatMessage       EventType = "CHAT_MESSAGE"
	TypeAdminLock         EventType = "ADMIN_LOCK"
	TypeAdminUnlock       EventType = "ADMIN_UNLOCK"
	TypeAdminClear        EventType = "ADMIN_CLEAR_MESSAGES"
	TypeAdminAnnouncement EventType = "ADMIN_ANNOUNCEMENT"
	TypeDMRequest         EventType = "DM_REQUEST"
	TypeDMAccept          EventType = "DM_ACCEPT"
)

// Outbound event types. TypeChatMessage and TypeDMRequest appear in both
// directions: the former echoes accepted messages, the latter notifies the
// pairing target.
const (
	TypeChatHistory    EventType = "CHAT_HISTORY"
	TypeChatLockStatus EventType = "CHAT_LOCK_STATUS"
	TypeChatLocked     EventType = "CHAT_LOCKED"
	TypeUserList       EventType = "USER_LIST"
	TypeSignInOK       EventType = "SIGN_IN_OK"
	TypeSignInError    EventType = "SIGN_IN_ERROR"
	TypeDMRedirect     EventType = "DM_REDIRECT"
	TypeError          EventType = "ERROR"
)

// Envelope is the JSON frame exchanged in both directions. Outbound
// envelopes carry a server-assigned id and timestamp; inbound ones are
// identified only by their type and payload.
type Envelope struct {
	ID        string          `json:"id,omitempty"`
	Type      EventType       `json:"type"`
	Timestamp int64           `json:"timestamp,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope builds an outbound envelope, marshaling payload once so fan
// out can reuse the encoded bytes.
func NewEnvelope(t EventType, payload any) (Envelope, error) {
	env := Envelope{
		ID:        randx.EventID(),
		Type:      t,
		Timestamp: time.Now().UnixMilli(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
		}
		env.Payload = data
	}

	return env, nil
}

// Inbound payloads.

// SetUsernamePayload renames the sender; an empty name restores the
// generated placeholder.
type SetUsernamePayload struct {
	Name string `json:"name"`
}

// SignInPayload carries the credential pair for role escalation.
type SignInPayload struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// TextPayload carries chat message and announcement text.
type TextPayload struct {
	Text string `json:"text"`
}

// DMRequestPayload names the session the sender wants to pair with.
type DMRequestPayload struct {
	TargetID string `json:"targetId"`
}

// DMAcceptPayload carries the pairing token being accepted.
type DMAcceptPayload struct {
	Token string `json:"token"`
}

// Outbound payloads.

// HistoryPayload replays the full message history. Clients replace their
// view on receipt rather than appending.
type HistoryPayload struct {
	Messages []Message `json:"messages"`
}

// LockStatusPayload announces the current chat lock state.
type LockStatusPayload struct {
	Locked bool `json:"locked"`
}

// UserListPayload carries the roster of connected sessions.
type UserListPayload struct {
	Users []session.RosterEntry `json:"users"`
}

// SignInOKPayload confirms escalation to the requesting session only.
type SignInOKPayload struct {
	Role        session.Role `json:"role"`
	DisplayName string       `json:"displayName"`
}

// DMRequestNotice notifies the target session of a pending pairing.
type DMRequestNotice struct {
	From     string `json:"from"`
	FromName string `json:"fromName"`
	Token    string `json:"token"`
}

// DMRedirectPayload instructs both participants to move into the private
// sub-channel identified by the token.
type DMRedirectPayload struct {
	Token   string `json:"token"`
	Channel string `json:"channel"`
}

// ErrorPayload reports a rejected event to the causing session only.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

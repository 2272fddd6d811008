/*
Package session contains the server-side state for live client connections.

It defines the Session struct and the Role type gating moderation actions,
plus the Registry that owns every live session.
*/
package session

// Role is the privilege label of a session. The set of roles is an
// enumeration over the credential table, not a fixed list; RoleNone is the
// only value with special meaning.
type Role string

// RoleNone is the role of every session before escalation.
const RoleNone Role = "none"

// Privileged reports whether the role bypasses the chat lock and may
// perform moderation actions. Every escalated role is privileged.
func (r Role) Privileged() bool {
	return r != "" && r != RoleNone
}

// Session is the state of one live connection. Sessions exist only for the
// lifetime of their connection; nothing survives a reconnect.
type Session struct {
	// ID is the opaque connection identifier assigned at upgrade time,
	// stable for the connection's lifetime and never reused while live.
	ID string `json:"id"`

	// DisplayName is the name shown in the roster and on messages.
	DisplayName string `json:"displayName"`

	// Role is the session's privilege label.
	Role Role `json:"role"`

	// defaultDisplayName is the generated placeholder name, restored when
	// the client clears its custom name.
	defaultDisplayName string
}

// DefaultDisplayName returns the placeholder name assigned at creation.
func (s *Session) DefaultDisplayName() string {
	return s.defaultDisplayName
}

// RosterEntry is the public view of a session broadcast in user lists.
type RosterEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

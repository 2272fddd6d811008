/*
Package session contains the server-side state for live client connections.

This file defines the Registry, the exclusive owner of all Session objects.
The Registry is not safe for concurrent use: it is owned by the hub's
dispatch goroutine and must only be touched from there.
*/
package session

import (
	"fmt"
	"sort"

	"chatrelay/internal/pkg/randx"
)

// Registry maps connection identifiers to their live sessions.
type Registry struct {
	sessions map[string]*Session
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Register creates a session for connectionID with a generated placeholder
// display name and RoleNone. A duplicate identifier violates transport
// semantics and is reported as an error; the caller treats it as a bug.
func (r *Registry) Register(connectionID string) (*Session, error) {
	if _, ok := r.sessions[connectionID]; ok {
		return nil, fmt.Errorf("session already registered for connection %q", connectionID)
	}

	name, err := randx.DisplayName()
	if err != nil {
		return nil, fmt.Errorf("failed to generate display name: %w", err)
	}

	s := &Session{
		ID:                 connectionID,
		DisplayName:        name,
		Role:               RoleNone,
		defaultDisplayName: name,
	}
	r.sessions[connectionID] = s

	return s, nil
}

// Get returns the session for connectionID, or nil if absent.
func (r *Registry) Get(connectionID string) *Session {
	return r.sessions[connectionID]
}

// Rename sets the session's display name, or restores the placeholder name
// when requestedName is empty. It returns the session, or nil if absent.
func (r *Registry) Rename(connectionID, requestedName string) *Session {
	s, ok := r.sessions[connectionID]
	if !ok {
		return nil
	}

	if requestedName == "" {
		s.DisplayName = s.defaultDisplayName
	} else {
		s.DisplayName = requestedName
	}

	return s
}

// Escalate sets the session's role and display name. Repeated escalation
// with the same inputs is a no-op in effect. It returns the session, or
// nil if absent.
func (r *Registry) Escalate(connectionID string, role Role, displayName string) *Session {
	s, ok := r.sessions[connectionID]
	if !ok {
		return nil
	}

	s.Role = role
	s.DisplayName = displayName

	return s
}

// Remove deletes the session for connectionID. It reports whether a
// session was removed; removal of an absent id is a no-op because
// disconnect events may double-fire.
func (r *Registry) Remove(connectionID string) bool {
	if _, ok := r.sessions[connectionID]; !ok {
		return false
	}

	delete(r.sessions, connectionID)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}

// Snapshot returns a roster copy of all live sessions, ordered by display
// name for stable client rendering.
func (r *Registry) Snapshot() []RosterEntry {
	roster := make([]RosterEntry, 0, len(r.sessions))

	for _, s := range r.sessions {
		roster = append(roster, RosterEntry{
			ID:          s.ID,
			DisplayName: s.DisplayName,
			Role:        s.Role,
		})
	}

	sort.Slice(roster, func(i, j int) bool {
		if roster[i].DisplayName == roster[j].DisplayName {
			return roster[i].ID < roster[j].ID
		}
		return roster[i].DisplayName < roster[j].DisplayName
	})

	return roster
}

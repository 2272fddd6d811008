/*
Package pairing implements the direct-message pairing handshake.

A pairing binds exactly two session identifiers under a high-entropy token.
The initiator requests a pairing naming a target; the pairing becomes
usable once either participant accepts with the exact token, at which point
both parties are redirected into the private sub-channel and the entry is
consumed. Entries expire after a TTL so abandoned invitations do not
accumulate.

The Service is not safe for concurrent use: it is owned by the hub's
dispatch goroutine.
*/
package pairing

import (
	"fmt"
	"time"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/randx"
)

// Pairing binds two session identifiers under a single-use token.
type Pairing struct {
	// Token is the capability string identifying the private sub-channel.
	Token string

	// InitiatorID is the session that requested the pairing.
	InitiatorID string

	// TargetID is the session the pairing was addressed to.
	TargetID string

	// ExpiresAt is the absolute expiry of the invitation.
	ExpiresAt time.Time
}

// Includes reports whether id is one of the pairing's two participants.
func (p Pairing) Includes(id string) bool {
	return id == p.InitiatorID || id == p.TargetID
}

// Service is the short-lived registry of pairing tokens.
type Service struct {
	ttl      time.Duration
	pairings map[string]Pairing
}

// NewService returns a Service whose entries expire after ttl.
func NewService(ttl time.Duration) *Service {
	return &Service{
		ttl:      ttl,
		pairings: make(map[string]Pairing),
	}
}

// Request creates a pairing from initiatorID to targetID and returns it.
// The target is not validated against the live roster: a request to an
// absent id simply produces an invitation nobody can observe, which
// expires on its own.
func (s *Service) Request(initiatorID, targetID string, now time.Time) (Pairing, error) {
	token, err := randx.PairingToken()
	if err != nil {
		return Pairing{}, fmt.Errorf("failed to generate pairing token: %w", err)
	}

	p := Pairing{
		Token:       token,
		InitiatorID: initiatorID,
		TargetID:    targetID,
		ExpiresAt:   now.Add(s.ttl),
	}
	s.pairings[token] = p

	return p, nil
}

// Accept resolves token on behalf of responderID. It succeeds only when the
// token names a live pairing and responderID is one of its participants;
// success consumes the entry so a token redirects at most once. Failures
// are explicit so the caller can notify the responder.
func (s *Service) Accept(responderID, token string, now time.Time) (Pairing, *errs.CustomError) {
	p, ok := s.pairings[token]
	if !ok {
		return Pairing{}, errs.NewError(errs.ErrPairingNotFound)
	}

	if now.After(p.ExpiresAt) {
		delete(s.pairings, token)
		return Pairing{}, errs.NewError(errs.ErrPairingExpired)
	}

	if !p.Includes(responderID) {
		return Pairing{}, errs.NewError(errs.ErrPairingForbidden)
	}

	delete(s.pairings, token)
	return p, nil
}

// Purge drops every pairing expired at now and returns how many were removed.
func (s *Service) Purge(now time.Time) int {
	count := 0
	for token, p := range s.pairings {
		if now.After(p.ExpiresAt) {
			delete(s.pairings, token)
			count++
		}
	}
	return count
}

// Len returns the number of live pairings.
func (s *Service) Len() int {
	return len(s.pairings)
}

/*
Package auth implements credential-based role escalation.

The Authenticator checks a (name, secret) pair against a static credential
table loaded at startup. Secrets are stored as bcrypt hashes; the table is
configuration, never user-editable at runtime.

There is deliberately no rate limiting or lockout at this layer. The
original system had none either; connection-level throttling happens at
the transport edge instead.
*/
package auth

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"chatrelay/internal/app/session"
	"chatrelay/internal/pkg/logx"
)

// Grant is the result of a successful credential check.
type Grant struct {
	// Role is the escalated privilege label.
	Role session.Role

	// DisplayName is the escalated display name for the session.
	DisplayName string
}

// Authenticator performs stateless lookups against the credential table.
type Authenticator struct {
	table  map[string]Credential
	logger zerolog.Logger
}

// NewAuthenticator builds an Authenticator from the given credentials.
// Later duplicates of a name replace earlier entries.
func NewAuthenticator(creds []Credential) *Authenticator {
	table := make(map[string]Credential, len(creds))
	for _, c := range creds {
		table[c.Name] = c
	}

	return &Authenticator{
		table:  table,
		logger: logx.Logger().With().Str("component", "Authenticator").Logger(),
	}
}

// TryAuthenticate checks the (name, secret) pair against the table. On a
// match it returns the associated role and display name and true; on any
// mismatch it returns false. Failed attempts are never echoed beyond the
// requesting session; this method only reports the outcome.
func (a *Authenticator) TryAuthenticate(name, secret string) (Grant, bool) {
	cred, ok := a.table[name]
	if !ok {
		// Burn a comparison anyway so an unknown name costs the same as a
		// wrong secret.
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(secret))
		return Grant{}, false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.SecretHash), []byte(secret)); err != nil {
		a.logger.Debug().Str("name", name).Msg("Credential secret mismatch.")
		return Grant{}, false
	}

	displayName := cred.DisplayName
	if displayName == "" {
		displayName = fmt.Sprintf("[%s] %s", cred.Role, cred.Name)
	}

	return Grant{
		Role:        cred.Role,
		DisplayName: displayName,
	}, true
}

// Roles returns the set of roles present in the table. The role
// enumeration of the system is defined by configuration, not code.
func (a *Authenticator) Roles() []session.Role {
	seen := make(map[session.Role]struct{}, len(a.table))
	roles := make([]session.Role, 0, len(a.table))

	for _, c := range a.table {
		if _, ok := seen[c.Role]; ok {
			continue
		}
		seen[c.Role] = struct{}{}
		roles = append(roles, c.Role)
	}

	return roles
}

// dummyHash is a bcrypt hash of an unguessable throwaway value, used only
// to equalize timing for unknown names.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

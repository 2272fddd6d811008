/*
Package auth implements credential-based role escalation.

This file handles loading the credential table from its JSON file. The
table is the secret-storage boundary: secrets live outside the source tree
as bcrypt hashes.
*/
package auth

import (
	"encoding/json"
	"fmt"
	"os"

	"chatrelay/internal/app/session"
)

// Credential is one entry of the static credential table.
type Credential struct {
	// Name is the sign-in name, matched exactly.
	Name string `json:"name"`

	// SecretHash is the bcrypt hash of the sign-in secret.
	SecretHash string `json:"secretHash"`

	// Role is the privilege label granted on a match.
	Role session.Role `json:"role"`

	// DisplayName optionally overrides the default "[role] name" template.
	DisplayName string `json:"displayName,omitempty"`
}

// LoadCredentials reads the credential table from path. An empty path
// yields an empty table, leaving sign-in permanently unsuccessful.
func LoadCredentials(path string) ([]Credential, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %q: %w", path, err)
	}

	var creds []Credential
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %q: %w", path, err)
	}

	for i, c := range creds {
		if c.Name == "" || c.SecretHash == "" || c.Role == "" {
			return nil, fmt.Errorf("credentials file %q: entry %d is missing name, secretHash, or role", path, i)
		}
		if c.Role == session.RoleNone {
			return nil, fmt.Errorf("credentials file %q: entry %d grants the reserved role %q", path, i, session.RoleNone)
		}
	}

	return creds, nil
}

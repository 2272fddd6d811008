/*
Package token issues and validates signed admin tokens.

The token is the transport-level admin credential: it is minted by the
admin login endpoint and consumed exactly once at WebSocket upgrade, where
it yields the escalated role a new session starts with. The chat core never
inspects tokens itself.
*/
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultExpiration is the validity window of an admin token.
	DefaultExpiration = 12 * time.Hour

	// Issuer identifies this server as the token issuer.
	Issuer = "chatrelay"

	// CookieName is the cookie under which clients present the admin token.
	CookieName = "admin_token"
)

// Claims carries the authenticated identity inside an admin token.
type Claims struct {
	jwt.RegisteredClaims

	// Name is the credential name that authenticated.
	Name string `json:"name"`

	// Role is the escalated role granted by the credential table.
	Role string `json:"role"`

	// DisplayName is the escalated display name for the session.
	DisplayName string `json:"displayName"`
}

// Generate creates and signs a token for the given identity.
func Generate(name, role, displayName, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
		Name:        name,
		Role:        role,
		DisplayName: displayName,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return t.SignedString([]byte(secretKey))
}

// Parse validates tokenString against secretKey and returns its claims.
func Parse(tokenString, secretKey string) (*Claims, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(Issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, err
	}

	if !t.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

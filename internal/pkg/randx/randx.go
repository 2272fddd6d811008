/*
Package randx provides cryptographically secure random identifiers.

It generates connection and event UUIDs, placeholder display names for new
sessions, and high-entropy numeric tokens for direct-message pairings.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// DisplayNamePrefix is the prefix of generated placeholder names.
	DisplayNamePrefix = "User"

	// displayNameMax bounds the numeric suffix of placeholder names (0-9999).
	displayNameMax = 10000

	// PairingTokenDigits is the length of a pairing token. 18 decimal digits
	// keep guessing infeasible for any realistic number of connected clients.
	PairingTokenDigits = 18
)

// ConnectionID returns a UUID v4 string identifying a single connection.
// Identifiers are never reused while the process lives.
func ConnectionID() string {
	return uuid.New().String()
}

// EventID returns a UUID v4 string used as a unique event/message identifier.
func EventID() string {
	return uuid.New().String()
}

// DisplayName generates a placeholder display name of the form "User<0-9999>".
func DisplayName() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(displayNameMax))
	if err != nil {
		return "", fmt.Errorf("failed to generate random display name suffix: %w", err)
	}

	return fmt.Sprintf("%s%d", DisplayNamePrefix, n.Int64()), nil
}

// PairingToken generates a random numeric token of PairingTokenDigits digits.
func PairingToken() (string, error) {
	digits := make([]byte, PairingTokenDigits)

	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit for pairing token: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}

	return string(digits), nil
}

package randx

import (
	"strconv"
	"strings"
	"testing"
)

func TestDisplayName(t *testing.T) {
	for i := 0; i < 50; i++ {
		name, err := DisplayName()
		if err != nil {
			t.Fatalf("DisplayName: %v", err)
		}

		if !strings.HasPrefix(name, DisplayNamePrefix) {
			t.Fatalf("expected %q prefix, got %q", DisplayNamePrefix, name)
		}

		n, err := strconv.Atoi(name[len(DisplayNamePrefix):])
		if err != nil {
			t.Fatalf("non-numeric suffix in %q: %v", name, err)
		}
		if n < 0 || n > 9999 {
			t.Fatalf("suffix %d outside 0-9999", n)
		}
	}
}

func TestPairingToken(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		token, err := PairingToken()
		if err != nil {
			t.Fatalf("PairingToken: %v", err)
		}

		if len(token) != PairingTokenDigits {
			t.Fatalf("expected %d digits, got %d (%q)", PairingTokenDigits, len(token), token)
		}
		for _, r := range token {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit %q in token %q", r, token)
			}
		}

		if _, ok := seen[token]; ok {
			t.Fatalf("duplicate token generated: %q", token)
		}
		seen[token] = struct{}{}
	}
}

func TestConnectionIDUnique(t *testing.T) {
	a, b := ConnectionID(), ConnectionID()
	if a == b {
		t.Fatalf("consecutive connection ids collided: %q", a)
	}
}

// Package token issues and checks the bearer tokens that guard submissions.
package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
)

// Size is the number of random bytes in a token (160 bits).
const Size = 20

// Issuer produces tokens from a random source
type Issuer struct {
	source io.Reader
}

// NewIssuer returns an Issuer backed by crypto/rand.
func NewIssuer() *Issuer {
	return &Issuer{source: rand.Reader}
}

// NewIssuerWithSource returns an Issuer reading from source. Only tests should
// pass anything other than a cryptographically secure reader.
func NewIssuerWithSource(source io.Reader) *Issuer {
	return &Issuer{source: source}
}

// Issue returns a new token as Size*2 lowercase hex characters.
func (i *Issuer) Issue() (string, error) {
	buf := make([]byte, Size)
	if _, err := io.ReadFull(i.source, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Verify reports whether candidate equals stored. The comparison time does
// not depend on where the strings differ.
func Verify(candidate, stored string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}

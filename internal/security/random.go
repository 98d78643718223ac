package security

import (
	"crypto/rand"
	"encoding/hex"
)

// NewResetToken returns a 32-byte cryptographically random token as hex.
// Only its HashToken digest is ever persisted.
func NewResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashToken digests a raw credential before it touches the database. The
// pepper is fixed process configuration, so the digest stays deterministic
// for lookups while a leaked table alone is not enough to forge one.
func HashToken(raw, pepper string) string {
	h := sha256.Sum256([]byte(raw + ":" + pepper))
	return hex.EncodeToString(h[:])
}

// ConstantTimeEqual reports whether two hashes match without leaking the
// position of the first differing byte.
func ConstantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		// Burn comparable time before rejecting on length.
		subtle.ConstantTimeCompare([]byte(a), []byte(a))
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

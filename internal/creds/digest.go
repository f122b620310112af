package creds

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest computes the lowercase hex SHA-256 of a plaintext secret. The
// authority stores the same transform, so the digest is only ever compared
// for equality, never reversed.
func Digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the lowercase hex SHA-256 digest of secret, or "" for
// an empty secret. The digest is unsalted so that the store can match it by
// equality; existing credentials depend on this exact format.
func HashPassword(secret string) string {
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

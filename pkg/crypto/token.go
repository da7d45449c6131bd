package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// OpaqueTokenSize is the entropy of refresh tokens and reset secrets (256 bits).
const OpaqueTokenSize = 32

// GenerateOpaqueToken returns a 256-bit random secret, hex encoded.
func GenerateOpaqueToken() (string, error) {
	return GenerateRandomToken(OpaqueTokenSize)
}

// HashToken returns the lowercase hex SHA-256 of a raw token.
// This is the only form in which token secrets are persisted.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// TokenMatchesHash reports whether raw hashes to storedHash, comparing the
// hex digests case-insensitively in constant time.
func TokenMatchesHash(raw, storedHash string) bool {
	computed := HashToken(raw)
	stored := strings.ToLower(strings.TrimSpace(storedHash))
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}

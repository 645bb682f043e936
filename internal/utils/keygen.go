package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecret returns n random bytes hex encoded. Used for the ephemeral
// cart token secret in development when none is configured.
func GenerateSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

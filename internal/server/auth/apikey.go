package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// apiKeyBytes is the amount of entropy in a generated key. 32 bytes encode
// to a 43-character URL-safe string.
const apiKeyBytes = 32

// GenerateAPIKey returns a random, URL-safe static API key. Keys are
// independent of any account data and are never derived from passwords.
func GenerateAPIKey() (string, error) {
	b := make([]byte, apiKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

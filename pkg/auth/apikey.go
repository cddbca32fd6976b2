package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 12
)

// GenerateAPIKey generates a secure API key
func GenerateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// HashAPIKey hashes an API key for storage in configuration.
func HashAPIKey(apiKey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash API key: %w", err)
	}
	return string(hash), nil
}

// VerifyAPIKey checks a presented key against a stored bcrypt hash.
func VerifyAPIKey(apiKey, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(apiKey))
}

// MatchAPIKey reports whether the presented key matches any configured hash.
func MatchAPIKey(apiKey string, hashes []string) bool {
	for _, h := range hashes {
		if VerifyAPIKey(apiKey, h) == nil {
			return true
		}
	}
	return false
}

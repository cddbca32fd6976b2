// Package auth provides token issuing and verification for the API.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenDuration is how long an issued service token stays valid.
const DefaultTokenDuration = 24 * time.Hour

// JWTManager handles JWT token operations
type JWTManager struct {
	secretKey []byte
	tokenTTL  time.Duration
}

// Claims represents the claims in a service token
type Claims struct {
	Subject string   `json:"sub_name"`
	Scopes  []string `json:"scopes"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		tokenTTL:  DefaultTokenDuration,
	}
}

// NewJWTManagerWithTTL creates a new JWT manager with a custom TTL
func NewJWTManagerWithTTL(secretKey string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
	}
}

// GenerateToken issues a signed service token for the given subject.
func (m *JWTManager) GenerateToken(subject string, scopes []string) (string, error) {
	now := time.Now()

	claims := &Claims{
		Subject: subject,
		Scopes:  scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "taskdeck",
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ValidateToken validates and parses a service token.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

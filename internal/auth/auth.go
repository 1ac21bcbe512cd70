// Package auth guards admin operations with the shared admin password.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"

	"wedding-memories/internal/apperr"
)

// Gate checks the admin password sent with each privileged request.
type Gate struct {
	secret []byte
}

// NewGate creates a gate for secret. An empty secret denies everyone.
func NewGate(secret string) *Gate {
	if secret == "" {
		return &Gate{}
	}
	sum := sha256.Sum256([]byte(secret))
	return &Gate{secret: sum[:]}
}

// Check returns apperr.Unauthorized unless password matches the secret.
func (g *Gate) Check(password string) error {
	if len(g.secret) == 0 || password == "" {
		return apperr.Unauthorized
	}
	sum := sha256.Sum256([]byte(password))
	if !hmac.Equal(sum[:], g.secret) {
		return apperr.Unauthorized
	}
	return nil
}

// Enabled reports whether an admin password is configured.
func (g *Gate) Enabled() bool {
	return len(g.secret) > 0
}

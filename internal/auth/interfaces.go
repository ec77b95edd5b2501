package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carries the identity embedded in a bearer token
type Claims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService defines the interface for token creation and parsing.
// Implementations include JWTService (HS256, optionally unverified decode)
// and PasetoService (PASETO v4.local).
type TokenService interface {
	Issue(userID string) (string, error)
	Parse(tokenStr string) (*Claims, error)
}

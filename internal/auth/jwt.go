package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTService issues HS256-signed bearer tokens carrying the user id, an
// issue stamp and an absolute expiry.
//
// When verifySignature is false, Parse decodes the token without checking
// the signature: any structurally valid, unexpired token is accepted. This
// mirrors the behavior of the system this one replaces and is exposed as an
// explicit configuration toggle rather than silently changed.
type JWTService struct {
	secret          []byte
	ttl             time.Duration
	verifySignature bool
}

func NewJWTService(secret []byte, ttl time.Duration, verifySignature bool) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret must not be empty")
	}

	return &JWTService{
		secret:          secret,
		ttl:             ttl,
		verifySignature: verifySignature,
	}, nil
}

// Issue creates a new signed token for the user
func (s *JWTService) Issue(userID string) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"id":    userID,
		"stamp": now.UTC().Format(time.RFC3339),
		"exp":   now.Add(s.ttl).Unix(),
		"jti":   uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Parse decodes a token and returns its claims. Expired tokens return
// ErrExpiredToken; anything else that fails to decode returns
// ErrInvalidToken.
func (s *JWTService) Parse(tokenStr string) (*Claims, error) {
	var mapClaims jwt.MapClaims

	if s.verifySignature {
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, ErrExpiredToken
			}
			return nil, ErrInvalidToken
		}

		var ok bool
		mapClaims, ok = token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, ErrInvalidToken
		}
	} else {
		// Structural decode only; expiry is still enforced below
		token, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
		if err != nil {
			return nil, ErrInvalidToken
		}

		var ok bool
		mapClaims, ok = token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, ErrInvalidToken
		}

		exp, err := mapClaims.GetExpirationTime()
		if err != nil {
			return nil, ErrInvalidToken
		}
		if exp != nil && time.Now().After(exp.Time) {
			return nil, ErrExpiredToken
		}
	}

	userID, ok := mapClaims["id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UserID: userID}
	if stamp, ok := mapClaims["stamp"].(string); ok {
		if issuedAt, err := time.Parse(time.RFC3339, stamp); err == nil {
			claims.IssuedAt = issuedAt
		}
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}

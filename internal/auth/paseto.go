package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

// PasetoService is the PASETO v4.local alternative to JWTService.
// Tokens are encrypted with XChaCha20-Poly1305, so unlike the JWT scheme
// they can never be decoded without verification.
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	ttl          time.Duration
}

func NewPasetoService(symmetricKey []byte, ttl time.Duration) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey: key,
		ttl:          ttl,
	}, nil
}

// Issue generates a new PASETO v4.local token for the user
func (s *PasetoService) Issue(userID string) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(s.ttl))
	token.SetString("id", userID)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// Parse validates a PASETO v4.local token and returns the claims
func (s *PasetoService) Parse(tokenStr string) (*Claims, error) {
	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		// The parser checks expiration by default; distinguish expired from invalid
		if errors.Is(err, &paseto.RuleError{}) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	userID, err := token.GetString("id")
	if err != nil {
		return nil, ErrInvalidToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:    userID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

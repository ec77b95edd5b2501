package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pinshare/pinshare-api/internal/logging"
	"github.com/pinshare/pinshare-api/internal/user"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserRepository is the persistence surface the auth service needs
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// IDGenerator produces primary keys for new accounts
type IDGenerator interface {
	NewID() string
}

// Service handles signup and login
type Service struct {
	users  UserRepository
	tokens TokenService
	ids    IDGenerator
	logger *logging.Logger
}

func NewService(users UserRepository, tokens TokenService, ids IDGenerator, logger *logging.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		ids:    ids,
		logger: logger,
	}
}

// SignUp creates a new account and returns a bearer token for it.
// Usernames are normalized to lowercase, so uniqueness and login are
// case-insensitive.
func (s *Service) SignUp(ctx context.Context, username, password string) (string, error) {
	username = strings.ToLower(username)

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return "", ErrUsernameTaken
	}
	if !errors.Is(err, user.ErrNotFound) {
		return "", fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &user.User{
		ID:           s.ids.NewID(),
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrDuplicateUsername) {
			return "", ErrUsernameTaken
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(newUser.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

// Login verifies credentials and returns a bearer token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.ToLower(username)

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existing.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(existing.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/pinshare/pinshare-api/internal/logging"
	"github.com/pinshare/pinshare-api/internal/user"
)

type memoryUserRepo struct {
	byUsername map[string]*user.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byUsername: make(map[string]*user.User)}
}

func (r *memoryUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, ok := r.byUsername[u.Username]; ok {
		return user.ErrDuplicateUsername
	}
	stored := *u
	r.byUsername[u.Username] = &stored
	return nil
}

func (r *memoryUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type fakeIDs struct {
	next int
}

func (f *fakeIDs) NewID() string {
	f.next++
	return "user-" + string(rune('0'+f.next))
}

type recordingTokens struct {
	issuedFor []string
}

func (r *recordingTokens) Issue(userID string) (string, error) {
	r.issuedFor = append(r.issuedFor, userID)
	return "token-for-" + userID, nil
}

func (r *recordingTokens) Parse(tokenStr string) (*Claims, error) {
	return nil, ErrInvalidToken
}

func newTestService(repo *memoryUserRepo, tokens *recordingTokens) *Service {
	return NewService(repo, tokens, &fakeIDs{}, logging.NewLogger(true))
}

func TestSignUpCreatesActiveUser(t *testing.T) {
	repo := newMemoryUserRepo()
	tokens := &recordingTokens{}
	svc := newTestService(repo, tokens)

	token, err := svc.SignUp(context.Background(), "Alice", "secret123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	stored, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("username should be stored lowercased: %v", err)
	}
	if !stored.IsActive {
		t.Error("new accounts should be active")
	}
	if stored.PasswordHash == "secret123" {
		t.Error("password must not be stored in plaintext")
	}
	if !VerifyPassword(stored.PasswordHash, "secret123") {
		t.Error("stored hash should verify against the original password")
	}
	if len(tokens.issuedFor) != 1 || tokens.issuedFor[0] != stored.ID {
		t.Errorf("token should be issued for the new user id, got %v", tokens.issuedFor)
	}
}

func TestSignUpDuplicateUsernameCaseInsensitive(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := newTestService(repo, &recordingTokens{})

	if _, err := svc.SignUp(context.Background(), "alice", "secret123"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.SignUp(context.Background(), "ALICE", "otherpass")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newMemoryUserRepo()
	tokens := &recordingTokens{}
	svc := newTestService(repo, tokens)

	if _, err := svc.SignUp(context.Background(), "alice", "secret123"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Login accepts any casing of the username
	token, err := svc.Login(context.Background(), "Alice", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := newTestService(repo, &recordingTokens{})

	if _, err := svc.SignUp(context.Background(), "alice", "secret123"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, err := svc.Login(context.Background(), "alice", "wrongpass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(newMemoryUserRepo(), &recordingTokens{})

	_, err := svc.Login(context.Background(), "nobody", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

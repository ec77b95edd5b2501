package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pinshare/pinshare-api/internal/user"
)

type stubTokens struct {
	claims *Claims
	err    error
}

func (s *stubTokens) Issue(userID string) (string, error) { return "stub-token", nil }
func (s *stubTokens) Parse(tokenStr string) (*Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

type stubUsers struct {
	user *user.User
	err  error
}

func (s *stubUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type envelope struct {
	Status string `json:"status"`
	Data   struct {
		Message any `json:"message"`
	} `json:"data"`
}

func runGate(t *testing.T, m *Middleware, token string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/user_info", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()

	m.RequireAuth(next).ServeHTTP(rec, req)
	return rec, reached
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func TestRequireAuthMissingToken(t *testing.T) {
	m := NewMiddleware(&stubTokens{}, &stubUsers{})

	rec, reached := runGate(t, m, "")

	if reached {
		t.Error("handler should not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Data.Message != "Bad request. Header does not contain Authorization token" {
		t.Errorf("unexpected message: %v", env.Data.Message)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	m := NewMiddleware(&stubTokens{err: ErrInvalidToken}, &stubUsers{})

	rec, reached := runGate(t, m, "faketoken")

	if reached {
		t.Error("handler should not run with an invalid token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Data.Message != "Unauthorized. The authorization token supplied is invalid" {
		t.Errorf("unexpected message: %v", env.Data.Message)
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	m := NewMiddleware(&stubTokens{err: ErrExpiredToken}, &stubUsers{})

	rec, reached := runGate(t, m, "expiredtoken")

	if reached {
		t.Error("handler should not run with an expired token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Data.Message != "The authorization token supplied is expired" {
		t.Errorf("unexpected message: %v", env.Data.Message)
	}
}

func TestRequireAuthUnknownUser(t *testing.T) {
	tokens := &stubTokens{claims: &Claims{UserID: "ghost"}}
	m := NewMiddleware(tokens, &stubUsers{err: user.ErrNotFound})

	rec, reached := runGate(t, m, "token")

	if reached {
		t.Error("handler should not run for an unknown user")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Data.Message != "User does not exist" {
		t.Errorf("unexpected message: %v", env.Data.Message)
	}
}

func TestRequireAuthInactiveAccount(t *testing.T) {
	tokens := &stubTokens{claims: &Claims{UserID: "user-1"}}
	users := &stubUsers{user: &user.User{ID: "user-1", Username: "user1", IsActive: false}}
	m := NewMiddleware(tokens, users)

	rec, reached := runGate(t, m, "token")

	if reached {
		t.Error("handler should not run for an inactive account")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Data.Message != "This account is not active, please activate." {
		t.Errorf("unexpected message: %v", env.Data.Message)
	}
}

func TestRequireAuthAttachesUser(t *testing.T) {
	tokens := &stubTokens{claims: &Claims{UserID: "user-1"}}
	users := &stubUsers{user: &user.User{ID: "user-1", Username: "user1", IsActive: true}}
	m := NewMiddleware(tokens, users)

	var gotUser *user.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = user.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/user_info", nil)
	req.Header.Set("Authorization", "token")
	rec := httptest.NewRecorder()

	m.RequireAuth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gotUser == nil || gotUser.ID != "user-1" {
		t.Errorf("expected handler to see user-1, got %+v", gotUser)
	}
}

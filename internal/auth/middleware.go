package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/pinshare/pinshare-api/internal/httputil"
	"github.com/pinshare/pinshare-api/internal/user"
)

// Gate failure messages, kept exactly as the API has always returned them
const (
	msgMissingToken   = "Bad request. Header does not contain Authorization token"
	msgInvalidToken   = "Unauthorized. The authorization token supplied is invalid"
	msgExpiredToken   = "The authorization token supplied is expired"
	msgUserNotFound   = "User does not exist"
	msgAccountInactive = "This account is not active, please activate."
)

// UserStore looks up the account behind a token's user id
type UserStore interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// Middleware authenticates protected routes with two ordered gates:
// the token gate decodes the bearer token from the authorization header,
// then the account gate checks the account exists and is active. The
// authenticated user is attached to the request context for handlers.
type Middleware struct {
	tokens TokenService
	users  UserStore
}

func NewMiddleware(tokens TokenService, users UserStore) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// RequireAuth runs both gates before the wrapped handler
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Token gate. The header carries the raw token, no "Bearer" prefix.
		token := r.Header.Get("Authorization")
		if token == "" {
			httputil.Fail(w, msgMissingToken, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.Fail(w, msgExpiredToken, http.StatusUnauthorized)
				return
			}
			httputil.Fail(w, msgInvalidToken, http.StatusUnauthorized)
			return
		}

		// Account gate, runs only after the token gate passes
		u, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httputil.Fail(w, msgUserNotFound, http.StatusBadRequest)
				return
			}
			httputil.Fail(w, "Something went wrong", http.StatusInternalServerError)
			return
		}

		if !u.IsActive {
			httputil.Fail(w, msgAccountInactive, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r.WithContext(user.NewContext(r.Context(), u)))
	})
}

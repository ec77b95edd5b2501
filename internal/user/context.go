package user

import "context"

type contextKey string

const currentUserKey contextKey = "current_user"

// NewContext attaches the authenticated user to the request context.
// Set by the auth middleware after both of its gates pass.
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// FromContext returns the authenticated user attached by the auth middleware
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(currentUserKey).(*User)
	return u, ok
}

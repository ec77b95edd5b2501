package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/pinshare/pinshare-api/internal/database"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Repository handles user persistence, composed on the generic gateway
type Repository struct {
	gateway *database.Repository[database.User]
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{gateway: database.NewRepository[database.User](db)}
}

// Create inserts a new user. The caller is responsible for lowercasing the
// username and hashing the password.
func (r *Repository) Create(ctx context.Context, u *User) error {
	dbUser := &database.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
	}

	if err := r.gateway.Create(ctx, dbUser); err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	dbUser, err := r.gateway.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByUsername retrieves a user by (lowercase) username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	dbUser, err := r.gateway.FindFirst(ctx, map[string]any{"username": username})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// Exists reports whether a user with the given id exists
func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	count, err := r.gateway.Count(ctx, map[string]any{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return count > 0, nil
}

// ListAll returns every user
func (r *Repository) ListAll(ctx context.Context) ([]*User, error) {
	dbUsers, err := r.gateway.FindAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*User, 0, len(dbUsers))
	for i := range dbUsers {
		users = append(users, mapDBUserToModel(&dbUsers[i]))
	}
	return users, nil
}

// ListByIDs returns the users with the given ids
func (r *Repository) ListByIDs(ctx context.Context, ids []string) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var dbUsers []database.User
	err := r.gateway.DB().NewSelect().
		Model(&dbUsers).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by ids: %w", err)
	}

	users := make([]*User, 0, len(dbUsers))
	for i := range dbUsers {
		users = append(users, mapDBUserToModel(&dbUsers[i]))
	}
	return users, nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:           dbu.ID,
		Username:     dbu.Username,
		PasswordHash: dbu.PasswordHash,
		IsActive:     dbu.IsActive,
		CreatedAt:    dbu.CreatedAt,
		ModifiedAt:   dbu.ModifiedAt,
	}
}

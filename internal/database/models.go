package database

import (
	"time"

	"github.com/uptrace/bun"
)

// User row. Usernames are stored lowercase; uniqueness is enforced by the
// database. Accounts are deactivated via is_active, never deleted.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string    `bun:"id,pk"`
	Username     string    `bun:"username,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	IsActive     bool      `bun:"is_active,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	ModifiedAt   time.Time `bun:"modified_at,nullzero,notnull,default:current_timestamp"`
}

// Pin row. LatLng is always a two-element [latitude, longitude] array.
type Pin struct {
	bun.BaseModel `bun:"table:pins,alias:p"`

	ID         string    `bun:"id,pk"`
	UserID     string    `bun:"user_id,notnull"`
	Name       string    `bun:"name,notnull"`
	LatLng     []float64 `bun:"lat_lng,array,notnull"`
	IsActive   bool      `bun:"is_active,notnull,default:true"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	ModifiedAt time.Time `bun:"modified_at,nullzero,notnull,default:current_timestamp"`
}

// PinShare row: a directed grant of pin visibility from shared_by to
// shared_to. At most one active row should exist per (pin_id, shared_to);
// the share service enforces this with a check before insert.
type PinShare struct {
	bun.BaseModel `bun:"table:pinshares,alias:ps"`

	ID         string    `bun:"id,pk"`
	PinID      string    `bun:"pin_id,notnull"`
	SharedBy   string    `bun:"shared_by,notnull"`
	SharedTo   string    `bun:"shared_to,notnull"`
	IsActive   bool      `bun:"is_active,notnull,default:true"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	ModifiedAt time.Time `bun:"modified_at,nullzero,notnull,default:current_timestamp"`
}

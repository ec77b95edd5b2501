package pin

import "time"

// Pin is a named geographic point owned by one user.
// LatLng is always [latitude, longitude].
type Pin struct {
	ID         string
	UserID     string
	Name       string
	LatLng     []float64
	IsActive   bool
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Share is a directed grant of pin visibility from SharedBy to SharedTo
type Share struct {
	ID         string
	PinID      string
	SharedBy   string
	SharedTo   string
	IsActive   bool
	CreatedAt  time.Time
	ModifiedAt time.Time
}

package pin

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/pinshare/pinshare-api/internal/database"
)

var ErrNotFound = errors.New("pin not found")

// Repository handles pin and share persistence, composed on the generic
// gateway for both entities.
type Repository struct {
	pins   *database.Repository[database.Pin]
	shares *database.Repository[database.PinShare]
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{
		pins:   database.NewRepository[database.Pin](db),
		shares: database.NewRepository[database.PinShare](db),
	}
}

// Create inserts a new pin
func (r *Repository) Create(ctx context.Context, p *Pin) error {
	dbPin := &database.Pin{
		ID:       p.ID,
		UserID:   p.UserID,
		Name:     p.Name,
		LatLng:   p.LatLng,
		IsActive: p.IsActive,
	}

	if err := r.pins.Create(ctx, dbPin); err != nil {
		return fmt.Errorf("failed to create pin: %w", err)
	}

	return nil
}

// GetByID retrieves a pin by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Pin, error) {
	dbPin, err := r.pins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pin by id: %w", err)
	}

	return mapDBPinToModel(dbPin), nil
}

// UpdateFields applies a partial update to a pin. A missing id returns
// false, not an error.
func (r *Repository) UpdateFields(ctx context.Context, id string, fields map[string]any) (bool, error) {
	// Slices need the postgres array wrapper when bound as raw query args
	if latLng, ok := fields["lat_lng"].([]float64); ok {
		fields = cloneFields(fields)
		fields["lat_lng"] = pgdialect.Array(latLng)
	}
	return r.pins.UpdateFields(ctx, id, fields)
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// ListByOwner returns the active pins created by the given user,
// newest first.
func (r *Repository) ListByOwner(ctx context.Context, userID string) ([]*Pin, error) {
	var dbPins []database.Pin
	err := r.pins.DB().NewSelect().
		Model(&dbPins).
		Where("user_id = ?", userID).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins by owner: %w", err)
	}

	return mapDBPinsToModels(dbPins), nil
}

// ListSharedTo returns the active pins shared to the given user through
// active share records.
func (r *Repository) ListSharedTo(ctx context.Context, userID string) ([]*Pin, error) {
	var dbPins []database.Pin
	err := r.pins.DB().NewSelect().
		Model(&dbPins).
		Join("JOIN pinshares AS ps ON ps.pin_id = p.id").
		Where("ps.shared_to = ?", userID).
		Where("ps.is_active = ?", true).
		Where("p.is_active = ?", true).
		Order("p.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared pins: %w", err)
	}

	return mapDBPinsToModels(dbPins), nil
}

// ActiveShareExists reports whether an active share record already exists
// for the (pin, sharer, recipient) triple.
func (r *Repository) ActiveShareExists(ctx context.Context, pinID, sharedBy, sharedTo string) (bool, error) {
	count, err := r.shares.Count(ctx, map[string]any{
		"pin_id":    pinID,
		"shared_by": sharedBy,
		"shared_to": sharedTo,
		"is_active": true,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check share existence: %w", err)
	}

	return count > 0, nil
}

// CreateShare inserts a new share record
func (r *Repository) CreateShare(ctx context.Context, s *Share) error {
	dbShare := &database.PinShare{
		ID:       s.ID,
		PinID:    s.PinID,
		SharedBy: s.SharedBy,
		SharedTo: s.SharedTo,
		IsActive: s.IsActive,
	}

	if err := r.shares.Create(ctx, dbShare); err != nil {
		return fmt.Errorf("failed to create share: %w", err)
	}

	return nil
}

func mapDBPinToModel(dbp *database.Pin) *Pin {
	return &Pin{
		ID:         dbp.ID,
		UserID:     dbp.UserID,
		Name:       dbp.Name,
		LatLng:     dbp.LatLng,
		IsActive:   dbp.IsActive,
		CreatedAt:  dbp.CreatedAt,
		ModifiedAt: dbp.ModifiedAt,
	}
}

func mapDBPinsToModels(dbPins []database.Pin) []*Pin {
	pins := make([]*Pin, 0, len(dbPins))
	for i := range dbPins {
		pins = append(pins, mapDBPinToModel(&dbPins[i]))
	}
	return pins
}

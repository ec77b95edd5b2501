package pin

import (
	"context"
	"errors"
	"fmt"

	"github.com/pinshare/pinshare-api/internal/logging"
)

var (
	ErrPinNotFound = errors.New("pin does not exist")
	ErrNotOwner    = errors.New("unauthorized access")
)

// PinRepository is the persistence surface the service needs
type PinRepository interface {
	Create(ctx context.Context, p *Pin) error
	GetByID(ctx context.Context, id string) (*Pin, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (bool, error)
	ListByOwner(ctx context.Context, userID string) ([]*Pin, error)
	ListSharedTo(ctx context.Context, userID string) ([]*Pin, error)
	ActiveShareExists(ctx context.Context, pinID, sharedBy, sharedTo string) (bool, error)
	CreateShare(ctx context.Context, s *Share) error
}

// UserChecker verifies that share recipients exist
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// IDGenerator produces primary keys for new pins and shares
type IDGenerator interface {
	NewID() string
}

// Service implements the ownership and sharing rules: who may read, mutate
// and share a pin, and how duplicate shares are suppressed.
type Service struct {
	pins   PinRepository
	users  UserChecker
	ids    IDGenerator
	logger *logging.Logger
}

func NewService(pins PinRepository, users UserChecker, ids IDGenerator, logger *logging.Logger) *Service {
	return &Service{
		pins:   pins,
		users:  users,
		ids:    ids,
		logger: logger,
	}
}

// Create adds a new pin owned by the requesting user
func (s *Service) Create(ctx context.Context, ownerID, name string, latLng []float64) (*Pin, error) {
	newPin := &Pin{
		ID:       s.ids.NewID(),
		UserID:   ownerID,
		Name:     name,
		LatLng:   latLng,
		IsActive: true,
	}

	if err := s.pins.Create(ctx, newPin); err != nil {
		return nil, fmt.Errorf("failed to create pin: %w", err)
	}

	return s.pins.GetByID(ctx, newPin.ID)
}

// Update applies a partial update to a pin. Only the owner may update;
// a non-owner gets ErrNotOwner with no further detail.
func (s *Service) Update(ctx context.Context, requesterID, pinID string, name *string, latLng []float64) (*Pin, error) {
	existing, err := s.pins.GetByID(ctx, pinID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrPinNotFound
		}
		return nil, fmt.Errorf("failed to get pin: %w", err)
	}

	if existing.UserID != requesterID {
		return nil, ErrNotOwner
	}

	fields := make(map[string]any)
	if name != nil {
		fields["name"] = *name
	}
	if latLng != nil {
		fields["lat_lng"] = latLng
	}

	if len(fields) > 0 {
		updated, err := s.pins.UpdateFields(ctx, pinID, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to update pin: %w", err)
		}
		if !updated {
			return nil, ErrPinNotFound
		}
	}

	return s.pins.GetByID(ctx, pinID)
}

// Share grants pin visibility to up to ten recipients. Sharing is best
// effort: recipients that do not exist or already have an active share are
// skipped silently, and per-recipient storage failures are logged but never
// surfaced. Once the ownership check passes, Share always succeeds.
func (s *Service) Share(ctx context.Context, requesterID, pinID string, targetIDs []string) error {
	existing, err := s.pins.GetByID(ctx, pinID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrPinNotFound
		}
		return fmt.Errorf("failed to get pin: %w", err)
	}

	if existing.UserID != requesterID {
		return ErrNotOwner
	}

	for _, targetID := range targetIDs {
		exists, err := s.users.Exists(ctx, targetID)
		if err != nil {
			s.logger.Warn("failed to check share recipient", "user_id", targetID, "error", err.Error())
			continue
		}
		if !exists {
			continue
		}

		alreadyShared, err := s.pins.ActiveShareExists(ctx, pinID, requesterID, targetID)
		if err != nil {
			s.logger.Warn("failed to check existing share", "user_id", targetID, "error", err.Error())
			continue
		}
		if alreadyShared {
			continue
		}

		share := &Share{
			ID:       s.ids.NewID(),
			PinID:    pinID,
			SharedBy: requesterID,
			SharedTo: targetID,
			IsActive: true,
		}
		if err := s.pins.CreateShare(ctx, share); err != nil {
			s.logger.Warn("failed to create share", "user_id", targetID, "error", err.Error())
		}
	}

	return nil
}

// ListByOwner returns the active pins created by the user
func (s *Service) ListByOwner(ctx context.Context, userID string) ([]*Pin, error) {
	return s.pins.ListByOwner(ctx, userID)
}

// ListSharedTo returns the active pins shared to the user
func (s *Service) ListSharedTo(ctx context.Context, userID string) ([]*Pin, error) {
	return s.pins.ListSharedTo(ctx, userID)
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"dispatch/internal/domain"
	"dispatch/internal/redis"
)

// DriverService handles driver presence: registration, availability and
// live locations. It is the collaborator the dispatch console and the
// accept transition read; trip records only ever hold driver IDs.
type DriverService struct {
	presence redis.PresenceStoreInterface
}

// Ensure DriverService satisfies the registry's directory contract.
var _ DriverDirectory = (*DriverService)(nil)

// NewDriverService creates a new DriverService.
func NewDriverService(presence redis.PresenceStoreInterface) *DriverService {
	return &DriverService{presence: presence}
}

// Register stores a new driver and returns it. Freshly registered
// drivers start out available.
func (s *DriverService) Register(ctx context.Context, name string) (*domain.Driver, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: driver name is required", ErrValidation)
	}

	driver := &domain.Driver{
		ID:        uuid.New().String(),
		Name:      name,
		Available: true,
	}
	if err := s.presence.SetDriver(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// GetByID retrieves a driver by ID.
func (s *DriverService) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: driver id is required", ErrValidation)
	}

	driver, err := s.presence.GetDriver(ctx, id)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, ErrDriverNotFound
	}
	return driver, nil
}

// SetAvailability flips a driver's availability flag. An unavailable
// driver also drops out of the location index.
func (s *DriverService) SetAvailability(ctx context.Context, id string, available bool) (*domain.Driver, error) {
	driver, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	driver.Available = available
	if err := s.presence.SetDriver(ctx, driver); err != nil {
		return nil, err
	}

	if !available {
		if err := s.presence.RemoveLocation(ctx, id); err != nil {
			return nil, err
		}
	}
	return driver, nil
}

// UpdateLocation stores a driver's position in the geo index.
func (s *DriverService) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return ErrInvalidLocation
	}
	return s.presence.UpdateLocation(ctx, id, lat, lng)
}

// List returns all registered drivers.
func (s *DriverService) List(ctx context.Context) ([]*domain.Driver, error) {
	return s.presence.ListDrivers(ctx)
}

// Nearby returns drivers within radiusKm of the point, closest first.
func (s *DriverService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]redis.DriverLocation, error) {
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return nil, ErrInvalidLocation
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrValidation)
	}
	return s.presence.FindNearbyDrivers(ctx, lat, lng, radiusKm)
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

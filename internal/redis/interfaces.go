package redis

import (
	"context"

	"dispatch/internal/domain"
)

// PresenceStoreInterface defines the interface for driver presence
// operations.
type PresenceStoreInterface interface {
	SetDriver(ctx context.Context, driver *domain.Driver) error
	GetDriver(ctx context.Context, id string) (*domain.Driver, error)
	ListDrivers(ctx context.Context) ([]*domain.Driver, error)
	UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error
	FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]DriverLocation, error)
	RemoveLocation(ctx context.Context, driverID string) error
}

// Ensure the concrete type implements the interface.
var _ PresenceStoreInterface = (*PresenceStore)(nil)

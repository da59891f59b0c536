package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"dispatch/internal/domain"
)

const (
	driverKeyPrefix   = "drivers:profile:"
	driverIndexKey    = "drivers:ids"
	driverLocationKey = "drivers:locations"
)

// DriverLocation represents a driver's position.
type DriverLocation struct {
	DriverID string
	Lat      float64
	Lng      float64
}

// storedDriver is the JSON shape of a driver profile in Redis.
type storedDriver struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// PresenceStore keeps driver profiles, availability and live locations
// in Redis. Profiles live in plain keys plus an index set; locations
// use the GEO commands.
type PresenceStore struct {
	client *redis.Client
}

// NewPresenceStore creates a new PresenceStore.
func NewPresenceStore(client *redis.Client) *PresenceStore {
	return &PresenceStore{client: client}
}

// SetDriver stores or overwrites a driver profile.
func (s *PresenceStore) SetDriver(ctx context.Context, driver *domain.Driver) error {
	data, err := json.Marshal(storedDriver{
		ID:        driver.ID,
		Name:      driver.Name,
		Available: driver.Available,
	})
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, driverKeyPrefix+driver.ID, data, 0)
	pipe.SAdd(ctx, driverIndexKey, driver.ID)
	_, err = pipe.Exec(ctx)
	return err
}

// GetDriver retrieves a driver profile. Returns nil without error when
// the driver is unknown.
func (s *PresenceStore) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	data, err := s.client.Get(ctx, driverKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var stored storedDriver
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return &domain.Driver{ID: stored.ID, Name: stored.Name, Available: stored.Available}, nil
}

// ListDrivers returns all registered drivers.
func (s *PresenceStore) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	ids, err := s.client.SMembers(ctx, driverIndexKey).Result()
	if err != nil {
		return nil, err
	}

	drivers := make([]*domain.Driver, 0, len(ids))
	for _, id := range ids {
		driver, err := s.GetDriver(ctx, id)
		if err != nil {
			return nil, err
		}
		if driver != nil {
			drivers = append(drivers, driver)
		}
	}
	return drivers, nil
}

// UpdateLocation stores a driver's location using GEOADD.
func (s *PresenceStore) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, driverLocationKey, &redis.GeoLocation{
		Name:      driverID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// FindNearbyDrivers returns driver IDs within the given radius (in
// kilometers), closest first.
func (s *PresenceStore) FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]DriverLocation, error) {
	results, err := s.client.GeoRadius(ctx, driverLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]DriverLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, DriverLocation{
			DriverID: r.Name,
			Lat:      r.Latitude,
			Lng:      r.Longitude,
		})
	}
	return locations, nil
}

// RemoveLocation removes a driver's location from the geo index.
func (s *PresenceStore) RemoveLocation(ctx context.Context, driverID string) error {
	return s.client.ZRem(ctx, driverLocationKey, driverID).Err()
}

package tests

import (
	"context"
	"fmt"
	"sync"

	"dispatch/internal/domain"
	"dispatch/internal/redis"
)

// ──────────────────────────────────────────────
// SHARED MOCKS
// ──────────────────────────────────────────────

// MockPresenceStore is an in-memory stand-in for the Redis presence
// store. It tracks call counts so tests can assert on interactions.
type MockPresenceStore struct {
	mu        sync.Mutex
	drivers   map[string]*domain.Driver
	locations map[string]redis.DriverLocation

	SetDriverCallCount      int
	UpdateLocationCallCount int
	RemoveLocationCallCount int
}

func NewMockPresenceStore() *MockPresenceStore {
	return &MockPresenceStore{
		drivers:   make(map[string]*domain.Driver),
		locations: make(map[string]redis.DriverLocation),
	}
}

func (m *MockPresenceStore) SetDriver(ctx context.Context, driver *domain.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetDriverCallCount++
	cp := *driver
	m.drivers[driver.ID] = &cp
	return nil
}

func (m *MockPresenceStore) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, nil
	}
	cp := *driver
	return &cp, nil
}

func (m *MockPresenceStore) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockPresenceStore) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateLocationCallCount++
	m.locations[driverID] = redis.DriverLocation{DriverID: driverID, Lat: lat, Lng: lng}
	return nil
}

func (m *MockPresenceStore) RemoveLocation(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveLocationCallCount++
	delete(m.locations, driverID)
	return nil
}

func (m *MockPresenceStore) FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]redis.DriverLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]redis.DriverLocation, 0, len(m.locations))
	for _, loc := range m.locations {
		out = append(out, loc)
	}
	return out, nil
}

var _ redis.PresenceStoreInterface = (*MockPresenceStore)(nil)

// HasLocation reports whether a location is stored for the driver.
func (m *MockPresenceStore) HasLocation(driverID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.locations[driverID]
	return ok
}

// MockPublisher records published events in order.
type MockPublisher struct {
	mu     sync.Mutex
	events []string
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishCreated(trip domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, fmt.Sprintf("created:%d", trip.ID))
}

func (m *MockPublisher) PublishUpdated(trip domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, fmt.Sprintf("updated:%d:%s", trip.ID, trip.Status))
}

// Events returns a copy of the recorded event log.
func (m *MockPublisher) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	copy(out, m.events)
	return out
}

package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"dispatch/internal/domain"
)

// Action is a trip lifecycle transition requested by an operator or a
// driver.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
	ActionNoDriver Action = "no_driver"
)

// Publisher receives trip lifecycle events for fan-out to connected
// listeners. Implementations must never block: PublishCreated and
// PublishUpdated are called while the registry lock is held so that
// event order matches mutation order.
type Publisher interface {
	PublishCreated(trip domain.Trip)
	PublishUpdated(trip domain.Trip)
}

// DriverDirectory resolves driver references at acceptance time. A nil
// directory disables the lookup and only the non-empty ID rule applies.
type DriverDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.Driver, error)
}

// TripRegistry owns all trip records and enforces the lifecycle state
// machine:
//
//	searching -> accepted -> started -> completed
//	searching -> rejected
//	searching|accepted|started -> cancelled
//	searching -> no_driver
//
// Terminal statuses are final; no action leads out of them and nothing
// returns to searching. The registry is the only component that creates
// or mutates trips, and it never deletes them.
type TripRegistry struct {
	zones     *ZoneResolver
	pricing   *PricingEngine
	publisher Publisher
	drivers   DriverDirectory

	mu     sync.Mutex
	trips  map[int64]*domain.Trip
	order  []int64 // allocation order, oldest first
	nextID int64
}

// NewTripRegistry creates a new TripRegistry. publisher and drivers may
// be nil.
func NewTripRegistry(
	zones *ZoneResolver,
	pricing *PricingEngine,
	publisher Publisher,
	drivers DriverDirectory,
) *TripRegistry {
	return &TripRegistry{
		zones:     zones,
		pricing:   pricing,
		publisher: publisher,
		drivers:   drivers,
		trips:     make(map[int64]*domain.Trip),
	}
}

// CreateTripRequest contains the parameters for creating a trip.
type CreateTripRequest struct {
	CustomerName  string
	CustomerPhone string
	Pickup        domain.Point
	Dropoff       domain.Point
	DistanceKm    float64
	DurationMin   float64
}

// Create validates the request, prices the trip from the tariff in
// effect at the pickup point, allocates the next identifier and stores
// the trip in searching state. It is the only way a trip comes into
// existence. On any validation failure the registry is left unchanged.
func (r *TripRegistry) Create(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	zoneID := ""
	tariff := r.pricing.DefaultTariff()
	if zone, ok := r.zones.Resolve(req.Pickup.Lat, req.Pickup.Lng); ok {
		zoneID = zone.ID
		tariff = zone.Tariff
	}
	price := r.pricing.Estimate(req.DistanceKm, req.DurationMin, tariff)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	trip := &domain.Trip{
		ID:            r.nextID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Pickup:        req.Pickup,
		Dropoff:       req.Dropoff,
		DistanceKm:    req.DistanceKm,
		DurationMin:   req.DurationMin,
		Price:         price,
		ZoneID:        zoneID,
		Status:        domain.TripStatusSearching,
		CreatedAt:     time.Now(),
	}
	r.trips[trip.ID] = trip
	r.order = append(r.order, trip.ID)

	if r.publisher != nil {
		r.publisher.PublishCreated(*trip)
	}

	out := *trip
	return &out, nil
}

// TransitionRequest contains the parameters for a status transition.
type TransitionRequest struct {
	TripID   int64
	Action   Action
	DriverID string // Required for accept; ignored otherwise.
}

// Transition applies a lifecycle action to a trip. The check-then-set
// sequence runs under the registry lock, so two concurrent accepts on
// the same searching trip resolve to exactly one success. The trip is
// left unchanged on any failure.
func (r *TripRegistry) Transition(ctx context.Context, req TransitionRequest) (*domain.Trip, error) {
	if req.Action == ActionAccept && r.drivers != nil && req.DriverID != "" {
		// Resolve the driver before taking the lock; the lookup may
		// touch the network. A missing trip still wins over a missing
		// driver, and trips are never deleted, so the existence check
		// cannot go stale.
		if _, err := r.Get(req.TripID); err != nil {
			return nil, err
		}
		if _, err := r.drivers.GetByID(ctx, req.DriverID); err != nil {
			return nil, fmt.Errorf("%w: driver %q", ErrValidation, req.DriverID)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[req.TripID]
	if !ok {
		return nil, ErrTripNotFound
	}

	switch req.Action {
	case ActionAccept:
		if req.DriverID == "" {
			return nil, fmt.Errorf("%w: driver id is required to accept", ErrValidation)
		}
		if trip.Status != domain.TripStatusSearching {
			return nil, ErrInvalidTransition
		}
		trip.Status = domain.TripStatusAccepted
		trip.DriverID = req.DriverID

	case ActionReject:
		if trip.Status != domain.TripStatusSearching {
			return nil, ErrInvalidTransition
		}
		trip.Status = domain.TripStatusRejected

	case ActionStart:
		if trip.Status != domain.TripStatusAccepted {
			return nil, ErrInvalidTransition
		}
		trip.Status = domain.TripStatusStarted

	case ActionComplete:
		if trip.Status != domain.TripStatusStarted {
			return nil, ErrInvalidTransition
		}
		trip.Status = domain.TripStatusCompleted

	case ActionCancel:
		if trip.Status.IsTerminal() {
			return nil, ErrInvalidTransition
		}
		trip.Status = domain.TripStatusCancelled

	case ActionNoDriver:
		// Operator override, allowed from any live status. Terminal
		// statuses stay final.
		if trip.Status.IsTerminal() {
			return nil, ErrInvalidTransition
		}
		trip.Status = domain.TripStatusNoDriver

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}

	if r.publisher != nil {
		r.publisher.PublishUpdated(*trip)
	}

	out := *trip
	return &out, nil
}

// List returns copies of all trips, most recently created first. Safe
// for concurrent callers.
func (r *TripRegistry) List() []domain.Trip {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Trip, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, *r.trips[r.order[i]])
	}
	return out
}

// Get returns a copy of a single trip.
func (r *TripRegistry) Get(id int64) (*domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}
	out := *trip
	return &out, nil
}

// validateCreateRequest validates the create trip request.
func validateCreateRequest(req CreateTripRequest) error {
	if req.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if req.CustomerPhone == "" {
		return fmt.Errorf("%w: customer phone is required", ErrValidation)
	}
	if !isFinite(req.Pickup.Lat) || !isFinite(req.Pickup.Lng) {
		return fmt.Errorf("%w: pickup coordinates must be finite numbers", ErrValidation)
	}
	if !isFinite(req.Dropoff.Lat) || !isFinite(req.Dropoff.Lng) {
		return fmt.Errorf("%w: dropoff coordinates must be finite numbers", ErrValidation)
	}
	if !isFinite(req.DistanceKm) || req.DistanceKm < 0 {
		return fmt.Errorf("%w: distance must be a non-negative number", ErrValidation)
	}
	if !isFinite(req.DurationMin) || req.DurationMin < 0 {
		return fmt.Errorf("%w: duration must be a non-negative number", ErrValidation)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/broadcast"
	"dispatch/internal/domain"
	"dispatch/internal/service"
)

// ──────────────────────────────────────────────
// END-TO-END DISPATCH SCENARIOS
// ──────────────────────────────────────────────

func newDispatchCore(t *testing.T) (*service.TripRegistry, *broadcast.Hub) {
	t.Helper()

	zones := service.NewZoneResolver([]domain.Zone{
		{
			ID:   "downtown",
			Name: "Downtown",
			Ring: []domain.Vertex{
				{Lng: 10, Lat: 50}, {Lng: 11, Lat: 50}, {Lng: 11, Lat: 51}, {Lng: 10, Lat: 51},
			},
			Tariff: domain.Tariff{Base: 900, PerKm: 120, PerMinute: 20},
		},
	})
	// Default tariff uses the same numbers as the zone on purpose, so
	// inside/outside estimates can be compared directly.
	pricing := service.NewPricingEngine(domain.Tariff{Base: 900, PerKm: 120, PerMinute: 20})
	hub := broadcast.NewHub(nil)
	registry := service.NewTripRegistry(zones, pricing, hub, nil)
	return registry, hub
}

func createTrip(t *testing.T, registry *service.TripRegistry, pickup domain.Point) *domain.Trip {
	t.Helper()

	trip, err := registry.Create(context.Background(), service.CreateTripRequest{
		CustomerName:  "Ada",
		CustomerPhone: "+4912345",
		Pickup:        pickup,
		Dropoff:       domain.Point{Lat: 50.9, Lng: 10.9},
		DistanceKm:    5,
		DurationMin:   10,
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	return trip
}

// Scenario A: pickup inside the zone uses the zone tariff.
func TestScenario_ZonePricing(t *testing.T) {
	t.Parallel()

	registry, _ := newDispatchCore(t)
	trip := createTrip(t, registry, domain.Point{Lat: 50.5, Lng: 10.5})

	if trip.Price != 1700 {
		t.Errorf("expected zone price 1700, got %d", trip.Price)
	}
	if trip.ZoneID != "downtown" {
		t.Errorf("expected zone downtown, got %q", trip.ZoneID)
	}
}

// Scenario B: pickup outside all zones prices identically through the
// default tariff and records no zone.
func TestScenario_DefaultTariffPricing(t *testing.T) {
	t.Parallel()

	registry, _ := newDispatchCore(t)
	trip := createTrip(t, registry, domain.Point{Lat: 40.0, Lng: 5.0})

	if trip.Price != 1700 {
		t.Errorf("expected default tariff price 1700, got %d", trip.Price)
	}
	if trip.ZoneID != "" {
		t.Errorf("expected no zone, got %q", trip.ZoneID)
	}
}

// Scenario C: acceptance is exclusive and start/complete are ordered.
func TestScenario_AcceptanceRace(t *testing.T) {
	t.Parallel()

	registry, _ := newDispatchCore(t)
	ctx := context.Background()
	trip := createTrip(t, registry, domain.Point{Lat: 50.5, Lng: 10.5})

	// Completing before starting is illegal.
	if _, err := registry.Transition(ctx, service.TransitionRequest{TripID: trip.ID, Action: service.ActionComplete}); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("complete before accept: expected invalid transition, got %v", err)
	}

	updated, err := registry.Transition(ctx, service.TransitionRequest{TripID: trip.ID, Action: service.ActionAccept, DriverID: "D1"})
	if err != nil {
		t.Fatalf("accept D1: %v", err)
	}
	if updated.Status != domain.TripStatusAccepted || updated.DriverID != "D1" {
		t.Errorf("expected accepted by D1, got %s/%q", updated.Status, updated.DriverID)
	}

	if _, err := registry.Transition(ctx, service.TransitionRequest{TripID: trip.ID, Action: service.ActionAccept, DriverID: "D2"}); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("accept D2 after D1: expected invalid transition, got %v", err)
	}

	if _, err := registry.Transition(ctx, service.TransitionRequest{TripID: trip.ID, Action: service.ActionStart}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := registry.Transition(ctx, service.TransitionRequest{TripID: trip.ID, Action: service.ActionComplete}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	final, _ := registry.Get(trip.ID)
	if final.Status != domain.TripStatusCompleted || final.DriverID != "D1" {
		t.Errorf("expected completed by D1, got %s/%q", final.Status, final.DriverID)
	}
}

// Scenario D: cancel works from every live status and is rejected once
// a trip reaches a terminal status.
func TestScenario_CancelPolicy(t *testing.T) {
	t.Parallel()

	registry, _ := newDispatchCore(t)
	ctx := context.Background()

	setups := map[string][]service.Action{
		"searching": {},
		"accepted":  {service.ActionAccept},
		"started":   {service.ActionAccept, service.ActionStart},
	}
	for name, actions := range setups {
		trip := createTrip(t, registry, domain.Point{Lat: 50.5, Lng: 10.5})
		for _, a := range actions {
			if _, err := registry.Transition(ctx, service.TransitionRequest{TripID: trip.ID, Action: a, DriverID: "D1"}); err != nil {
				t.Fatalf("%s setup: %v", name, err)
			}
		}
		if _, err := registry.Transition(ctx, service.TransitionRequest{TripID: trip.ID, Action: service.ActionCancel}); err != nil {
			t.Errorf("cancel from %s: %v", name, err)
		}
	}

	// Completed trips cannot be cancelled.
	trip := createTrip(t, registry, domain.Point{Lat: 50.5, Lng: 10.5})
	for _, a := range []service.Action{service.ActionAccept, service.ActionStart, service.ActionComplete} {
		if _, err := registry.Transition(ctx, service.TransitionRequest{TripID: trip.ID, Action: a, DriverID: "D1"}); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	if _, err := registry.Transition(ctx, service.TransitionRequest{TripID: trip.ID, Action: service.ActionCancel}); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("cancel on completed: expected invalid transition, got %v", err)
	}
}

// Both audiences observe the full lifecycle in publish order.
func TestScenario_RealtimeFanout(t *testing.T) {
	t.Parallel()

	registry, hub := newDispatchCore(t)
	ctx := context.Background()

	dispatch := hub.Join(broadcast.GroupDispatch)
	drivers := hub.Join(broadcast.GroupDrivers)

	// Initial sync: snapshot of the current (empty) trip list.
	hub.SnapshotTo(dispatch, registry.List())

	trip := createTrip(t, registry, domain.Point{Lat: 50.5, Lng: 10.5})
	if _, err := registry.Transition(ctx, service.TransitionRequest{TripID: trip.ID, Action: service.ActionAccept, DriverID: "D1"}); err != nil {
		t.Fatalf("accept: %v", err)
	}

	wantDispatch := []broadcast.EventKind{
		broadcast.EventTripSnapshot,
		broadcast.EventTripCreated,
		broadcast.EventTripUpdated,
	}
	for i, want := range wantDispatch {
		ev := nextEvent(t, dispatch)
		if ev.Kind != want {
			t.Fatalf("dispatch event %d: expected %s, got %s", i, want, ev.Kind)
		}
	}

	wantDrivers := []broadcast.EventKind{
		broadcast.EventTripCreated,
		broadcast.EventTripUpdated,
	}
	for i, want := range wantDrivers {
		ev := nextEvent(t, drivers)
		if ev.Kind != want {
			t.Fatalf("drivers event %d: expected %s, got %s", i, want, ev.Kind)
		}
		if ev.Trip == nil || ev.Trip.ID != trip.ID {
			t.Errorf("drivers event %d carries wrong trip", i)
		}
	}
}

func nextEvent(t *testing.T, sub *broadcast.Subscriber) broadcast.Event {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return broadcast.Event{}
	}
}

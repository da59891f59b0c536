package service

import (
	"testing"

	"dispatch/internal/domain"
)

// squareZone returns a zone covering the box [minLng,maxLng]x[minLat,maxLat].
func squareZone(id string, minLng, minLat, maxLng, maxLat float64, tariff domain.Tariff) domain.Zone {
	return domain.Zone{
		ID:   id,
		Name: id,
		Ring: []domain.Vertex{
			{Lng: minLng, Lat: minLat},
			{Lng: maxLng, Lat: minLat},
			{Lng: maxLng, Lat: maxLat},
			{Lng: minLng, Lat: maxLat},
		},
		Tariff: tariff,
	}
}

func TestZoneResolver_PointInsideZone(t *testing.T) {
	t.Parallel()

	resolver := NewZoneResolver([]domain.Zone{
		squareZone("center", 10, 50, 11, 51, domain.Tariff{Base: 900}),
	})

	zone, ok := resolver.Resolve(50.5, 10.5)
	if !ok {
		t.Fatal("expected point to resolve to a zone")
	}
	if zone.ID != "center" {
		t.Errorf("expected zone center, got %s", zone.ID)
	}
}

func TestZoneResolver_PointOutsideAllZones(t *testing.T) {
	t.Parallel()

	resolver := NewZoneResolver([]domain.Zone{
		squareZone("center", 10, 50, 11, 51, domain.Tariff{}),
	})

	if _, ok := resolver.Resolve(52.0, 10.5); ok {
		t.Error("point north of the zone should not resolve")
	}
	if _, ok := resolver.Resolve(50.5, 9.0); ok {
		t.Error("point west of the zone should not resolve")
	}
}

func TestZoneResolver_NoZonesConfigured(t *testing.T) {
	t.Parallel()

	resolver := NewZoneResolver(nil)
	if _, ok := resolver.Resolve(50.5, 10.5); ok {
		t.Error("resolver without zones should never match")
	}
}

func TestZoneResolver_FirstMatchWinsOnOverlap(t *testing.T) {
	t.Parallel()

	// Both zones contain the test point; declaration order decides.
	resolver := NewZoneResolver([]domain.Zone{
		squareZone("first", 10, 50, 12, 52, domain.Tariff{Base: 100}),
		squareZone("second", 10, 50, 12, 52, domain.Tariff{Base: 200}),
	})

	zone, ok := resolver.Resolve(51, 11)
	if !ok {
		t.Fatal("expected overlapping point to resolve")
	}
	if zone.ID != "first" {
		t.Errorf("expected first declared zone to win, got %s", zone.ID)
	}
}

func TestZoneResolver_ConcavePolygon(t *testing.T) {
	t.Parallel()

	// A U-shaped polygon; the notch between the arms is outside.
	u := domain.Zone{
		ID: "u",
		Ring: []domain.Vertex{
			{Lng: 0, Lat: 0},
			{Lng: 6, Lat: 0},
			{Lng: 6, Lat: 6},
			{Lng: 4, Lat: 6},
			{Lng: 4, Lat: 2},
			{Lng: 2, Lat: 2},
			{Lng: 2, Lat: 6},
			{Lng: 0, Lat: 6},
		},
	}
	resolver := NewZoneResolver([]domain.Zone{u})

	if _, ok := resolver.Resolve(1, 1); !ok {
		t.Error("left arm interior should be inside")
	}
	if _, ok := resolver.Resolve(4, 5); !ok {
		t.Error("right arm interior should be inside")
	}
	if _, ok := resolver.Resolve(4, 3); ok {
		t.Error("the notch should be outside")
	}
}

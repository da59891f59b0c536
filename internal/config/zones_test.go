package config

import (
	"os"
	"path/filepath"
	"testing"

	"dispatch/internal/domain"
)

func writeZonesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zones.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write zones file: %v", err)
	}
	return path
}

func TestLoadZones_EmptyPathUsesFallback(t *testing.T) {
	t.Parallel()

	fallback := domain.Tariff{Base: 100, PerKm: 10, PerMinute: 5}
	zones, tariff, err := LoadZones("", fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zones) != 0 {
		t.Errorf("expected no zones, got %d", len(zones))
	}
	if tariff != fallback {
		t.Errorf("expected fallback tariff, got %+v", tariff)
	}
}

func TestLoadZones_ParsesDocument(t *testing.T) {
	t.Parallel()

	path := writeZonesFile(t, `{
		"default_tariff": {"base": 500, "per_km": 80, "per_minute": 15},
		"zones": [
			{
				"id": "downtown",
				"name": "Downtown",
				"tariff": {"base": 900, "per_km": 120, "per_minute": 20},
				"ring": [[10, 50], [11, 50], [11, 51], [10, 51]]
			},
			{
				"id": "airport",
				"name": "Airport",
				"tariff": {"base": 1500, "per_km": 100, "per_minute": 25},
				"ring": [[12, 50], [13, 50], [12.5, 51]]
			}
		]
	}`)

	zones, tariff, err := LoadZones(path, domain.Tariff{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tariff.Base != 500 || tariff.PerKm != 80 || tariff.PerMinute != 15 {
		t.Errorf("unexpected default tariff: %+v", tariff)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(zones))
	}
	// Declaration order is lookup precedence.
	if zones[0].ID != "downtown" || zones[1].ID != "airport" {
		t.Errorf("zones out of order: %s, %s", zones[0].ID, zones[1].ID)
	}
	if zones[0].Tariff.Base != 900 {
		t.Errorf("expected downtown base 900, got %v", zones[0].Tariff.Base)
	}
	if len(zones[0].Ring) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(zones[0].Ring))
	}
	if zones[0].Ring[0].Lng != 10 || zones[0].Ring[0].Lat != 50 {
		t.Errorf("vertex order must be [lng, lat], got %+v", zones[0].Ring[0])
	}
}

func TestLoadZones_MissingDefaultTariffKeepsFallback(t *testing.T) {
	t.Parallel()

	path := writeZonesFile(t, `{"zones": []}`)
	fallback := domain.Tariff{Base: 42}

	_, tariff, err := LoadZones(path, fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tariff != fallback {
		t.Errorf("expected fallback tariff, got %+v", tariff)
	}
}

func TestLoadZones_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		doc  string
	}{
		{"missing id", `{"zones": [{"name": "x", "ring": [[0,0],[1,0],[0,1]]}]}`},
		{"duplicate id", `{"zones": [
			{"id": "a", "ring": [[0,0],[1,0],[0,1]]},
			{"id": "a", "ring": [[0,0],[1,0],[0,1]]}
		]}`},
		{"short ring", `{"zones": [{"id": "a", "ring": [[0,0],[1,0]]}]}`},
		{"bad vertex", `{"zones": [{"id": "a", "ring": [[0,0],[1,0],[0]]}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeZonesFile(t, tc.doc)
			if _, _, err := LoadZones(path, domain.Tariff{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadZones_MissingFile(t *testing.T) {
	t.Parallel()

	if _, _, err := LoadZones("/does/not/exist.json", domain.Tariff{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

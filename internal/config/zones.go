package config

import (
	"fmt"

	"github.com/spf13/viper"

	"dispatch/internal/domain"
)

// zonesDocument is the on-disk shape of the zone configuration.
type zonesDocument struct {
	DefaultTariff *tariffDoc `mapstructure:"default_tariff"`
	Zones         []zoneDoc  `mapstructure:"zones"`
}

type tariffDoc struct {
	Base      float64 `mapstructure:"base"`
	PerKm     float64 `mapstructure:"per_km"`
	PerMinute float64 `mapstructure:"per_minute"`
}

type zoneDoc struct {
	ID     string      `mapstructure:"id"`
	Name   string      `mapstructure:"name"`
	Tariff tariffDoc   `mapstructure:"tariff"`
	Ring   [][]float64 `mapstructure:"ring"` // [lng, lat] pairs
}

// LoadZones reads the zone document at path and returns the configured
// zones in declaration order plus the default tariff. The order of the
// zones slice is the zone lookup precedence. When path is empty the
// fallback tariff is returned with no zones.
func LoadZones(path string, fallback domain.Tariff) ([]domain.Zone, domain.Tariff, error) {
	if path == "" {
		return nil, fallback, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fallback, fmt.Errorf("read zones file: %w", err)
	}

	var doc zonesDocument
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fallback, fmt.Errorf("parse zones file: %w", err)
	}

	tariff := fallback
	if doc.DefaultTariff != nil {
		tariff = domain.Tariff{
			Base:      doc.DefaultTariff.Base,
			PerKm:     doc.DefaultTariff.PerKm,
			PerMinute: doc.DefaultTariff.PerMinute,
		}
	}

	zones := make([]domain.Zone, 0, len(doc.Zones))
	seen := make(map[string]bool, len(doc.Zones))
	for i, zd := range doc.Zones {
		if zd.ID == "" {
			return nil, fallback, errZone(i, "id is required")
		}
		if seen[zd.ID] {
			return nil, fallback, errZone(i, "duplicate id %q", zd.ID)
		}
		seen[zd.ID] = true
		if len(zd.Ring) < 3 {
			return nil, fallback, errZone(i, "ring needs at least 3 vertices, got %d", len(zd.Ring))
		}

		ring := make([]domain.Vertex, len(zd.Ring))
		for j, pair := range zd.Ring {
			if len(pair) != 2 {
				return nil, fallback, errZone(i, "ring vertex %d must be a [lng, lat] pair", j)
			}
			ring[j] = domain.Vertex{Lng: pair[0], Lat: pair[1]}
		}
		zones = append(zones, domain.Zone{
			ID:   zd.ID,
			Name: zd.Name,
			Ring: ring,
			Tariff: domain.Tariff{
				Base:      zd.Tariff.Base,
				PerKm:     zd.Tariff.PerKm,
				PerMinute: zd.Tariff.PerMinute,
			},
		})
	}

	return zones, tariff, nil
}

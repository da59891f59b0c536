package service

import (
	"math"

	"dispatch/internal/domain"
)

// PricingEngine converts distance, duration and a tariff into a
// monetary estimate. It is deterministic and stateless.
type PricingEngine struct {
	defaultTariff domain.Tariff
}

// NewPricingEngine creates a new PricingEngine with the tariff used for
// points outside every configured zone.
func NewPricingEngine(defaultTariff domain.Tariff) *PricingEngine {
	return &PricingEngine{defaultTariff: defaultTariff}
}

// DefaultTariff returns the process-wide fallback tariff.
func (e *PricingEngine) DefaultTariff() domain.Tariff {
	return e.defaultTariff
}

// Estimate computes round(base + perKm*distance + perMinute*duration)
// with half rounded away from zero, floored at zero. Inputs are
// expected non-negative; the floor guards against a negative result
// from malformed tariffs.
func (e *PricingEngine) Estimate(distanceKm, durationMin float64, tariff domain.Tariff) int64 {
	raw := tariff.Base + tariff.PerKm*distanceKm + tariff.PerMinute*durationMin
	price := int64(math.Round(raw))
	if price < 0 {
		return 0
	}
	return price
}

// EstimateDefault prices with the fallback tariff.
func (e *PricingEngine) EstimateDefault(distanceKm, durationMin float64) int64 {
	return e.Estimate(distanceKm, durationMin, e.defaultTariff)
}

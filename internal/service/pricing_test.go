package service

import (
	"testing"

	"dispatch/internal/domain"
)

func TestPricingEngine_Formula(t *testing.T) {
	t.Parallel()

	engine := NewPricingEngine(domain.Tariff{})
	tariff := domain.Tariff{Base: 900, PerKm: 120, PerMinute: 20}

	// round(900 + 120*5 + 20*10) = 1700
	if got := engine.Estimate(5, 10, tariff); got != 1700 {
		t.Errorf("expected price 1700, got %d", got)
	}
}

func TestPricingEngine_RoundsHalfAwayFromZero(t *testing.T) {
	t.Parallel()

	engine := NewPricingEngine(domain.Tariff{})

	if got := engine.Estimate(0, 0, domain.Tariff{Base: 10.5}); got != 11 {
		t.Errorf("expected 10.5 to round to 11, got %d", got)
	}
	if got := engine.Estimate(0, 0, domain.Tariff{Base: 10.4}); got != 10 {
		t.Errorf("expected 10.4 to round to 10, got %d", got)
	}
}

func TestPricingEngine_NeverNegative(t *testing.T) {
	t.Parallel()

	engine := NewPricingEngine(domain.Tariff{})

	if got := engine.Estimate(1, 1, domain.Tariff{Base: -500, PerKm: 1, PerMinute: 1}); got != 0 {
		t.Errorf("expected negative result clamped to 0, got %d", got)
	}
}

func TestPricingEngine_Deterministic(t *testing.T) {
	t.Parallel()

	engine := NewPricingEngine(domain.Tariff{})
	tariff := domain.Tariff{Base: 37.3, PerKm: 11.7, PerMinute: 3.9}

	first := engine.Estimate(12.4, 33.1, tariff)
	for i := 0; i < 10; i++ {
		if got := engine.Estimate(12.4, 33.1, tariff); got != first {
			t.Fatalf("estimate not deterministic: %d vs %d", got, first)
		}
	}
}

func TestPricingEngine_MonotonicInDistanceAndDuration(t *testing.T) {
	t.Parallel()

	engine := NewPricingEngine(domain.Tariff{})
	tariff := domain.Tariff{Base: 100, PerKm: 50, PerMinute: 10}

	prev := engine.Estimate(0, 5, tariff)
	for d := 1.0; d <= 20; d++ {
		got := engine.Estimate(d, 5, tariff)
		if got < prev {
			t.Fatalf("price decreased with distance: %d after %d", got, prev)
		}
		prev = got
	}

	prev = engine.Estimate(5, 0, tariff)
	for m := 1.0; m <= 20; m++ {
		got := engine.Estimate(5, m, tariff)
		if got < prev {
			t.Fatalf("price decreased with duration: %d after %d", got, prev)
		}
		prev = got
	}
}

func TestPricingEngine_DefaultTariff(t *testing.T) {
	t.Parallel()

	engine := NewPricingEngine(domain.Tariff{Base: 900, PerKm: 120, PerMinute: 20})

	if got := engine.EstimateDefault(5, 10); got != 1700 {
		t.Errorf("expected default tariff price 1700, got %d", got)
	}
}

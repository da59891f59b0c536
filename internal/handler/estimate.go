package handler

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"dispatch/internal/service"
)

// EstimateHandler handles price estimate requests. Estimates read the
// zone configuration and the pricing formula only; nothing is mutated.
type EstimateHandler struct {
	zones   *service.ZoneResolver
	pricing *service.PricingEngine
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(zones *service.ZoneResolver, pricing *service.PricingEngine) *EstimateHandler {
	return &EstimateHandler{zones: zones, pricing: pricing}
}

// EstimateRequest is the HTTP request body for a price estimate.
type EstimateRequest struct {
	Pickup      PointPayload `json:"pickup"`
	DistanceKm  float64      `json:"distance_km"`
	DurationMin float64      `json:"duration_min"`
}

// EstimateResponse is the HTTP response for a price estimate.
type EstimateResponse struct {
	ZoneID   string        `json:"zone_id,omitempty"`
	ZoneName string        `json:"zone_name,omitempty"`
	Default  bool          `json:"default_tariff"`
	Tariff   TariffPayload `json:"tariff"`
	Price    int64         `json:"price"`
}

// Estimate handles POST /v1/estimates
func (h *EstimateHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	for field, v := range map[string]float64{
		"pickup.lat":   req.Pickup.Lat,
		"pickup.lng":   req.Pickup.Lng,
		"distance_km":  req.DistanceKm,
		"duration_min": req.DurationMin,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			respondError(c, fmt.Errorf("%w: %s must be a finite number", service.ErrValidation, field))
			return
		}
	}

	resp := EstimateResponse{Default: true, Tariff: toTariffPayload(h.pricing.DefaultTariff())}
	tariff := h.pricing.DefaultTariff()
	if zone, ok := h.zones.Resolve(req.Pickup.Lat, req.Pickup.Lng); ok {
		resp.ZoneID = zone.ID
		resp.ZoneName = zone.Name
		resp.Default = false
		resp.Tariff = toTariffPayload(zone.Tariff)
		tariff = zone.Tariff
	}
	resp.Price = h.pricing.Estimate(req.DistanceKm, req.DurationMin, tariff)

	c.JSON(http.StatusOK, resp)
}

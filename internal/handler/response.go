package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrTripNotFound),
		errors.Is(err, service.ErrDriverNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrInvalidLocation):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// PointPayload is the wire shape of a geographic point.
type PointPayload struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// TariffPayload is the wire shape of a tariff triple.
type TariffPayload struct {
	Base      float64 `json:"base"`
	PerKm     float64 `json:"per_km"`
	PerMinute float64 `json:"per_minute"`
}

// TripPayload is the wire shape of a trip, shared by the HTTP responses
// and the realtime events.
type TripPayload struct {
	ID            int64        `json:"id"`
	CustomerName  string       `json:"customer_name"`
	CustomerPhone string       `json:"customer_phone"`
	Pickup        PointPayload `json:"pickup"`
	Dropoff       PointPayload `json:"dropoff"`
	DistanceKm    float64      `json:"distance_km"`
	DurationMin   float64      `json:"duration_min"`
	Price         int64        `json:"price"`
	ZoneID        string       `json:"zone_id,omitempty"`
	Status        string       `json:"status"`
	DriverID      string       `json:"driver_id,omitempty"`
	CreatedAt     string       `json:"created_at"`
}

func toPointPayload(p domain.Point) PointPayload {
	return PointPayload{Lat: p.Lat, Lng: p.Lng, Address: p.Address}
}

func toTariffPayload(t domain.Tariff) TariffPayload {
	return TariffPayload{Base: t.Base, PerKm: t.PerKm, PerMinute: t.PerMinute}
}

func toTripPayload(t domain.Trip) TripPayload {
	return TripPayload{
		ID:            t.ID,
		CustomerName:  t.CustomerName,
		CustomerPhone: t.CustomerPhone,
		Pickup:        toPointPayload(t.Pickup),
		Dropoff:       toPointPayload(t.Dropoff),
		DistanceKm:    t.DistanceKm,
		DurationMin:   t.DurationMin,
		Price:         t.Price,
		ZoneID:        t.ZoneID,
		Status:        string(t.Status),
		DriverID:      t.DriverID,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}

func toTripPayloads(trips []domain.Trip) []TripPayload {
	out := make([]TripPayload, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripPayload(t))
	}
	return out
}

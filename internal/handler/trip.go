package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	registry *service.TripRegistry
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(registry *service.TripRegistry) *TripHandler {
	return &TripHandler{registry: registry}
}

// CreateTripRequest is the HTTP request body for creating a trip.
type CreateTripRequest struct {
	CustomerName  string       `json:"customer_name"`
	CustomerPhone string       `json:"customer_phone"`
	Pickup        PointPayload `json:"pickup"`
	Dropoff       PointPayload `json:"dropoff"`
	DistanceKm    float64      `json:"distance_km"`
	DurationMin   float64      `json:"duration_min"`
}

// TransitionRequest is the HTTP request body for a trip transition.
type TransitionRequest struct {
	Action   string `json:"action"`
	DriverID string `json:"driver_id,omitempty"`
}

// Create handles POST /v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.registry.Create(c.Request.Context(), service.CreateTripRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Pickup:        domain.Point{Lat: req.Pickup.Lat, Lng: req.Pickup.Lng, Address: req.Pickup.Address},
		Dropoff:       domain.Point{Lat: req.Dropoff.Lat, Lng: req.Dropoff.Lng, Address: req.Dropoff.Address},
		DistanceKm:    req.DistanceKm,
		DurationMin:   req.DurationMin,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTripPayload(*trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	c.JSON(http.StatusOK, toTripPayloads(h.registry.List()))
}

// Get handles GET /v1/trips/:id
func (h *TripHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid trip id"})
		return
	}

	trip, err := h.registry.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTripPayload(*trip))
}

// Transition handles POST /v1/trips/:id/transition
func (h *TripHandler) Transition(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid trip id"})
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.registry.Transition(c.Request.Context(), service.TransitionRequest{
		TripID:   id,
		Action:   service.Action(req.Action),
		DriverID: req.DriverID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTripPayload(*trip))
}

package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusSearching TripStatus = "searching"
	TripStatusAccepted  TripStatus = "accepted"
	TripStatusStarted   TripStatus = "started"
	TripStatusCompleted TripStatus = "completed"
	TripStatusRejected  TripStatus = "rejected"
	TripStatusCancelled TripStatus = "cancelled"
	TripStatusNoDriver  TripStatus = "no_driver"
)

// IsTerminal reports whether a trip in this status can never change again.
func (s TripStatus) IsTerminal() bool {
	switch s {
	case TripStatusCompleted, TripStatusRejected, TripStatusCancelled, TripStatusNoDriver:
		return true
	}
	return false
}

// Trip represents one ride request and its lifecycle record.
// Trips are created in searching state, mutated only through status
// transitions, and kept as in-process history for the life of the server.
type Trip struct {
	ID            int64
	CustomerName  string
	CustomerPhone string
	Pickup        Point
	Dropoff       Point
	DistanceKm    float64
	DurationMin   float64
	Price         int64  // Fixed at creation from the tariff in effect; never recomputed.
	ZoneID        string // Zone used for pricing; empty means the default tariff.
	Status        TripStatus
	DriverID      string // Empty until a driver accepts.
	CreatedAt     time.Time
}

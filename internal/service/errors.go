package service

import "errors"

var (
	// ErrValidation is returned when a request is missing required fields
	// or carries malformed values. Wrapped errors add the offending field.
	ErrValidation = errors.New("invalid request")

	// ErrTripNotFound is returned when the referenced trip does not exist.
	ErrTripNotFound = errors.New("trip not found")

	// ErrInvalidTransition is returned when an action is not legal from
	// the trip's current status.
	ErrInvalidTransition = errors.New("action not allowed in current trip status")

	// ErrInvalidAction is returned for an unrecognized transition action.
	ErrInvalidAction = errors.New("unknown action")

	// ErrDriverNotFound is returned when a driver ID does not resolve
	// against the presence store.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")
)

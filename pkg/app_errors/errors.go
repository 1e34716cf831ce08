package apperrors

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrReservationNotFound = errors.New("reservation not found")

	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidState         = errors.New("invalid event state")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrDuplicateReservation = errors.New("duplicate reservation")

	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrUserHasDependencies  = errors.New("user has dependent reservations or events")
	ErrCodeGenerationFailed = errors.New("reservation code generation failed")
	ErrInternalServerError  = errors.New("internal server error")
)

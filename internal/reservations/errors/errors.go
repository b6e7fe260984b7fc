package errors

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")

	ErrRoomNotFound = errors.New("room not found")

	ErrRoomNumberNotFound = errors.New("room number not found")

	// ErrDatesTaken means the conditional reserve matched nothing because
	// at least one requested date was already in the unavailable set.
	ErrDatesTaken = errors.New("one or more requested dates are already booked")
)

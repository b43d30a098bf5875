package booking

import "errors"

var (
	// ErrInvalidDateRange is returned when the check-out date is not strictly
	// after the check-in date.
	ErrInvalidDateRange = errors.New("check-out date must be after check-in date")

	// ErrRoomUnavailable is returned when another live booking already holds
	// an overlapping stay for the room.
	ErrRoomUnavailable = errors.New("room is not available for the selected dates")

	// ErrNotFound is returned when a referenced booking or room does not exist.
	ErrNotFound = errors.New("booking not found")
)

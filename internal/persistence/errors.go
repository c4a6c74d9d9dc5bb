package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a write collides with an existing record,
	// including the (anchor day, slot) uniqueness backstop on bookings.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrUnavailable is returned when the backing store cannot complete a
	// read or write. Callers surface it rather than dropping data.
	ErrUnavailable = errors.New("persistence: store unavailable")
)

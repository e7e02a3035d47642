package repositories

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrCircuitNotFound is returned when no circuit record matches the lookup.
	ErrCircuitNotFound = errors.New("circuit not found")
	// ErrLapItemNotFound is returned when the lap file has no row with the given id.
	ErrLapItemNotFound = errors.New("lap item not found")
)

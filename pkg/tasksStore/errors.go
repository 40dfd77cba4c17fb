package tasksStore

import "errors"

var (
	// ErrNotFound is returned when a requested item is not in the store
	ErrNotFound = errors.New("item not found")

	// ErrStoreClosed is returned when using a closed store
	ErrStoreClosed = errors.New("store is closed")

	// ErrInvalidTask is returned when a snapshot fails validation
	ErrInvalidTask = errors.New("invalid task")
)

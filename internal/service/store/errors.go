package store

import "errors"

var (
	// ErrNotLoaded is returned when a mutation is attempted before Load.
	ErrNotLoaded = errors.New("timer store is not loaded")
	// ErrPersistenceWrite wraps failures of a background write to the backend.
	ErrPersistenceWrite = errors.New("persist timers")
	// ErrPersistenceRead wraps failures reading the backend during Load.
	ErrPersistenceRead = errors.New("read persisted timers")
)

package countdown

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers unique within at least one process run.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a plain function to IDGenerator.
type IDGeneratorFunc func() string

// NewID calls f.
func (f IDGeneratorFunc) NewID() string {
	return f()
}

// UUIDGenerator issues random (version 4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a fresh random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Clock provides the current time.
// It exists so tests can pin "now" instead of reading the wall clock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock is the default Clock backed by time.Now.
//
//nolint:gochecknoglobals // Stateless default shared by every store.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Create builds a Timer with a fresh random ID.
func Create(label string, target time.Time) Timer {
	return CreateWith(UUIDGenerator{}, label, target)
}

// CreateWith builds a Timer whose ID comes from ids.
func CreateWith(ids IDGenerator, label string, target time.Time) Timer {
	if ids == nil {
		ids = UUIDGenerator{}
	}

	return New(ids.NewID(), label, target)
}

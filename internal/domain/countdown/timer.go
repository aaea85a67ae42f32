package countdown

import (
	"strings"
	"time"
)

// UntitledLabel replaces labels that are empty after trimming.
const UntitledLabel = "Untitled"

// Timer describes one countdown. Values are immutable once created;
// editing a timer means removing it and creating a new one.
type Timer struct {
	// ID is the opaque identity used for lookup and removal.
	ID string
	// Label is the display name.
	Label string
	// Target is the local wall-clock instant the countdown runs to.
	Target time.Time
}

// New builds a Timer with the given identity.
// The label is trimmed and replaced by UntitledLabel when blank.
func New(id, label string, target time.Time) Timer {
	label = strings.TrimSpace(label)
	if label == "" {
		label = UntitledLabel
	}

	return Timer{
		ID:     id,
		Label:  label,
		Target: normalizeTarget(target),
	}
}

// Remaining returns the time left until Target, clamped at zero.
func (t Timer) Remaining(now time.Time) time.Duration {
	remaining := t.Target.Sub(now)
	if remaining < 0 {
		return 0
	}

	return remaining
}

// Reached reports whether the countdown has no time left.
// A timer due exactly now and one overdue by a year are both reached.
func (t Timer) Reached(now time.Time) bool {
	return t.Remaining(now) == 0
}

// Equal reports whether both timers carry the same identity, label and instant.
func (t Timer) Equal(other Timer) bool {
	return t.ID == other.ID &&
		t.Label == other.Label &&
		t.Target.Equal(other.Target)
}

// normalizeTarget keeps the instant but drops the monotonic reading and pins
// the location to time.Local, matching what Deserialize produces.
func normalizeTarget(target time.Time) time.Time {
	return target.Round(0).In(time.Local)
}

package countdown

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TargetLayout is the ISO-8601 local date-time layout used for Record.Target.
// Fractional seconds are written only when present.
const TargetLayout = "2006-01-02T15:04:05.999999999"

// ErrMalformedRecord is returned when a persisted record cannot be decoded.
var ErrMalformedRecord = errors.New("malformed timer record")

// Record is the structured form a Timer is persisted as.
type Record struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Target string `json:"target"`
}

// wireRecord detects missing fields, which Record would silently zero.
type wireRecord struct {
	ID     *string `json:"id"`
	Label  *string `json:"label"`
	Target *string `json:"target"`
}

// Serialize converts the timer into its persisted form.
func (t Timer) Serialize() Record {
	return Record{
		ID:     t.ID,
		Label:  t.Label,
		Target: t.Target.In(time.Local).Format(TargetLayout),
	}
}

// Deserialize is the inverse of Serialize. Any ID string is accepted,
// including an empty one, so every serialized timer reads back.
func Deserialize(record Record) (Timer, error) {
	target, err := ParseTarget(record.Target)
	if err != nil {
		return Timer{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	return Timer{
		ID:     record.ID,
		Label:  record.Label,
		Target: target,
	}, nil
}

// Encode renders the timer as a single JSON object.
func (t Timer) Encode() (string, error) {
	data, err := json.Marshal(t.Serialize())
	if err != nil {
		return "", fmt.Errorf("encode timer %s: %w", t.ID, err)
	}

	return string(data), nil
}

// Decode parses one JSON object produced by Encode.
func Decode(blob string) (Timer, error) {
	var wire wireRecord
	if err := json.Unmarshal([]byte(blob), &wire); err != nil {
		return Timer{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	switch {
	case wire.ID == nil:
		return Timer{}, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	case wire.Label == nil:
		return Timer{}, fmt.Errorf("%w: missing label", ErrMalformedRecord)
	case wire.Target == nil:
		return Timer{}, fmt.Errorf("%w: missing target", ErrMalformedRecord)
	}

	return Deserialize(Record{
		ID:     *wire.ID,
		Label:  *wire.Label,
		Target: *wire.Target,
	})
}

// ParseTarget reads a local date-time written with TargetLayout.
// Values carrying an explicit offset are accepted and converted to local time.
func ParseTarget(value string) (time.Time, error) {
	target, err := time.ParseInLocation(TargetLayout, value, time.Local)
	if err == nil {
		return target, nil
	}

	withOffset, offsetErr := time.Parse(time.RFC3339Nano, value)
	if offsetErr != nil {
		return time.Time{}, fmt.Errorf("parse target %q: %w", value, err)
	}

	return withOffset.In(time.Local), nil
}

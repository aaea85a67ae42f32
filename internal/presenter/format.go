package presenter

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/shoaibubaid/COUNTDOWN/internal/domain/countdown"
)

// ReachedText is shown instead of a duration once a timer has no time left.
const ReachedText = "reached"

const day = 24 * time.Hour

// inputLayouts are the target formats accepted from users, most specific first.
//
//nolint:gochecknoglobals // Read-only table.
var inputLayouts = []string{
	countdown.TargetLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

var errEmptyTarget = errors.New("target must be provided")

// FormatRemaining renders d as "[Nd ]HH:MM:SS", rounding partial seconds up so
// the display only reaches zero when the timer does.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return ReachedText
	}

	d = (d + time.Second - 1).Truncate(time.Second)

	days := d / day
	d -= days * day

	hours := d / time.Hour
	d -= hours * time.Hour

	minutes := d / time.Minute
	d -= minutes * time.Minute

	seconds := d / time.Second

	clock := fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	if days > 0 {
		return fmt.Sprintf("%dd %s", days, clock)
	}

	return clock
}

// Relative describes target relative to now, e.g. "3 days from now".
func Relative(target, now time.Time) string {
	return humanize.RelTime(target, now, "ago", "from now")
}

// ParseTargetInput reads a target typed by a user. Besides the date-time
// layouts it accepts "+<duration>" offsets from now, such as "+90m".
func ParseTargetInput(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errEmptyTarget
	}

	if offset, ok := strings.CutPrefix(value, "+"); ok {
		d, err := time.ParseDuration(offset)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse offset %q: %w", value, err)
		}

		return now.Add(d), nil
	}

	for _, layout := range inputLayouts {
		if target, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return target, nil
		}
	}

	target, err := countdown.ParseTarget(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised target %q", value)
	}

	return target, nil
}

// WriteTable writes one aligned row per timer.
func WriteTable(w io.Writer, timers []countdown.Timer, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "ID\tLABEL\tTARGET\tREMAINING\tWHEN"); err != nil {
		return err
	}

	for _, timer := range timers {
		remaining := ReachedText
		if !timer.Reached(now) {
			remaining = FormatRemaining(timer.Remaining(now))
		}

		_, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			timer.ID,
			timer.Label,
			timer.Target.Format("2006-01-02 15:04:05"),
			remaining,
			Relative(timer.Target, now),
		)
		if err != nil {
			return err
		}
	}

	return tw.Flush()
}

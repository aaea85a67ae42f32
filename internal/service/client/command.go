package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/shoaibubaid/COUNTDOWN/internal/domain/countdown"
	"github.com/shoaibubaid/COUNTDOWN/internal/logger"
	"github.com/shoaibubaid/COUNTDOWN/internal/presenter"
	"github.com/shoaibubaid/COUNTDOWN/internal/service/common"
)

// Options configures how the timer commands reach the timers.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// Overrides replaces values read from the settings file.
	Overrides common.Overrides

	// Remote sends operations to the daemon instead of the data file.
	Remote bool

	// Out receives command output; os.Stdout when nil.
	Out io.Writer

	// Clock supplies the current time; countdown.SystemClock when nil.
	Clock countdown.Clock
}

// WatchSettings tunes the watch screen.
type WatchSettings struct {
	// Interval between redraws.
	Interval time.Duration
	// RefreshEvery re-reads the timers every N redraws.
	RefreshEvery int
	// Clear wipes the terminal before each frame.
	Clear bool
}

// Add creates a timer from a label and a target such as "2025-12-31 18:00" or "+90m".
func Add(ctx context.Context, opts *Options, label, targetInput string) error {
	ctx = logger.WithName(ctx, "countdown-add")

	return withAccess(ctx, opts, func(access timerAccess) error {
		target, err := presenter.ParseTargetInput(targetInput, access.Now())
		if err != nil {
			return err
		}

		timer, err := access.Add(ctx, label, target)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(
			opts.out(),
			"Added %s %q due %s (%s)\n",
			timer.ID,
			timer.Label,
			timer.Serialize().Target,
			presenter.Relative(timer.Target, access.Now()),
		)

		return err
	})
}

// List prints every timer with its remaining time.
func List(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "countdown-list")

	return withAccess(ctx, opts, func(access timerAccess) error {
		timers, err := access.List(ctx)
		if err != nil {
			return err
		}

		if len(timers) == 0 {
			_, err = fmt.Fprintln(opts.out(), "No timers yet.")

			return err
		}

		return presenter.WriteTable(opts.out(), timers, access.Now())
	})
}

// Remove deletes the timer with the given ID. Unknown IDs are not an error.
func Remove(ctx context.Context, opts *Options, id string) error {
	ctx = logger.WithName(ctx, "countdown-remove")

	return withAccess(ctx, opts, func(access timerAccess) error {
		if err := access.Remove(ctx, id); err != nil {
			return err
		}

		_, err := fmt.Fprintf(opts.out(), "Removed %s\n", id)

		return err
	})
}

// Watch redraws the remaining time of every timer until ctx is cancelled.
func Watch(ctx context.Context, opts *Options, settings WatchSettings) error {
	ctx = logger.WithName(ctx, "countdown-watch")
	// Only warnings reach the terminal while the screen redraws.
	ctx = logger.ToContext(ctx, logger.FromContext(ctx).WithOptions(logger.WithLevel(zapcore.WarnLevel)))

	return withAccess(ctx, opts, func(access timerAccess) error {
		source := presenter.SourceFunc(func(ctx context.Context) ([]countdown.Timer, error) {
			return access.List(ctx)
		})

		return presenter.Watch(ctx, source, opts.out(), presenter.WatchOptions{
			Interval:     settings.Interval,
			RefreshEvery: settings.RefreshEvery,
			Clear:        settings.Clear,
			Now:          access.Now,
		})
	})
}

// withAccess opens the timers, runs fn and closes them, joining both errors.
func withAccess(ctx context.Context, opts *Options, fn func(timerAccess) error) (err error) {
	access, err := open(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := access.Close(); closeErr != nil {
			logger.ErrorKV(ctx, "Unable to close timers", "error", closeErr)
			err = multierr.Append(err, closeErr)
		}
	}()

	return fn(access)
}

func (o *Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}

	return o.Out
}

func (o *Options) clock() countdown.Clock {
	if o.Clock == nil {
		return countdown.SystemClock
	}

	return o.Clock
}

package presenter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shoaibubaid/COUNTDOWN/internal/domain/countdown"
	"github.com/shoaibubaid/COUNTDOWN/internal/logger"
)

// DefaultInterval is the redraw period of the watch screen.
const DefaultInterval = time.Second

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

// Source supplies the timers to draw.
type Source interface {
	Timers(ctx context.Context) ([]countdown.Timer, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) ([]countdown.Timer, error)

// Timers calls f.
func (f SourceFunc) Timers(ctx context.Context) ([]countdown.Timer, error) {
	return f(ctx)
}

// WatchOptions controls the redraw loop.
type WatchOptions struct {
	// Interval between redraws; DefaultInterval when zero.
	Interval time.Duration
	// RefreshEvery re-reads the source every N redraws; zero reads it only once.
	RefreshEvery int
	// Clear emits an ANSI clear before each frame.
	Clear bool
	// Now supplies the current time; time.Now when nil.
	Now func() time.Time
}

// Watch redraws the remaining time of every timer until ctx is cancelled.
// Between source refreshes it works only on the timers it already holds.
func Watch(ctx context.Context, source Source, w io.Writer, opts WatchOptions) error {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	timers, err := source.Timers(ctx)
	if err != nil {
		return fmt.Errorf("read timers: %w", err)
	}

	if err = drawFrame(w, timers, opts); err != nil {
		return err
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for frame := 1; ; frame++ {
		select {
		case <-ctx.Done():
			logger.DebugKV(ctx, "Watch stopped", "frames", frame)

			return nil
		case <-ticker.C:
		}

		if opts.RefreshEvery > 0 && frame%opts.RefreshEvery == 0 {
			refreshed, refreshErr := source.Timers(ctx)
			if refreshErr != nil {
				logger.WarnKV(ctx, "Keeping previous timers", "error", refreshErr)
			} else {
				timers = refreshed
			}
		}

		if err = drawFrame(w, timers, opts); err != nil {
			return err
		}
	}
}

func drawFrame(w io.Writer, timers []countdown.Timer, opts WatchOptions) error {
	if opts.Clear {
		if _, err := io.WriteString(w, clearScreen); err != nil {
			return fmt.Errorf("clear screen: %w", err)
		}
	}

	if len(timers) == 0 {
		_, err := fmt.Fprintln(w, "No timers yet.")

		return err
	}

	if err := WriteTable(w, timers, opts.Now()); err != nil {
		return fmt.Errorf("draw timers: %w", err)
	}

	return nil
}

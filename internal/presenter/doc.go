// Package presenter renders countdown timers for a terminal.
//
// It formats remaining durations, parses user supplied targets and runs the
// once-per-second redraw loop. Redraws only read timers already in memory.
package presenter

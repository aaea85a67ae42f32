// Package version exposes build metadata for the countdown binary.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
package version

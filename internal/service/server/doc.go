// Package server runs the countdown daemon: one process that owns the timer
// store and serves it to clients over gRPC.
package server

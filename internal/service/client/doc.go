// Package client implements the timer commands: add, list, remove and watch.
//
// Each command works either directly on the configured data file or, in
// remote mode, against a running countdown daemon.
package client

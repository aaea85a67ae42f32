// Package common holds helpers shared by several services.
//
// It provides the gRPC client for the countdown daemon, with per-call
// timeouts, and a helper that names the local user and host for log lines.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

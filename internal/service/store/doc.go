// Package store keeps the ordered collection of countdown timers in memory and
// mirrors it to a kv.Backend.
//
// Mutations are applied to memory first and persisted in the background as a
// whole-collection replace; Wait joins outstanding writes and reports their
// failures. A malformed or unreadable persisted list never prevents Load.
package store

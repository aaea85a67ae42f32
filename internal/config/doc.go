// Package config defines the settings used by the countdown commands and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type selects the storage backend and data file, the key the
// timer list lives under, and how to reach the countdown daemon.
package config

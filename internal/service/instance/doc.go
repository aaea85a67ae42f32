// Package instance detects other countdown processes on the same machine.
package instance

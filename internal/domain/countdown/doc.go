// Package countdown contains the core domain types for countdown timers.
//
// It defines Timer (an immutable label plus target instant), the Record form
// it is persisted as, and the small collaborators (Clock, IDGenerator) that the
// store injects so tests can substitute deterministic fakes.
package countdown

// Package clock abstracts wall-clock time so deadline logic is testable
// with fixed timestamps.
package clock

import "time"

// Clock is the time capability injected into the orchestrator.
type Clock interface {
	UtcNow() time.Time
}

type systemClock struct{}

func (systemClock) UtcNow() time.Time { return time.Now().UTC() }

// System returns the real wall clock.
func System() Clock { return systemClock{} }

// Fixed returns a clock frozen at the given instant.
func Fixed(t time.Time) Clock { return fixedClock{t: t.UTC()} }

type fixedClock struct{ t time.Time }

func (f fixedClock) UtcNow() time.Time { return f.t }

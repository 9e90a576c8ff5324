package clock

import "time"

// Clock provides the current time and can be mocked for testing.
// Session and bill timestamps always come from an injected Clock so
// lifecycle tests can control them.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

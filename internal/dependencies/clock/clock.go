package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// New creates a SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now()
}

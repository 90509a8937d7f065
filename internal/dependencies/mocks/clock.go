package mocks

import (
	"time"

	"github.com/signullgame/signull/internal/dependencies/clock"
)

// MockClock is a manually driven clock. Tests advance it explicitly to
// exercise time-dependent behavior like session expiry and prediction
// timeouts without sleeping.
type MockClock struct {
	CurrentTime time.Time
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock frozen at the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the frozen time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the clock forward and returns the new time
func (c *MockClock) Advance(d time.Duration) time.Time {
	c.CurrentTime = c.CurrentTime.Add(d)
	return c.CurrentTime
}

// Set jumps the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}

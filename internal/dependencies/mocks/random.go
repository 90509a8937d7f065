package mocks

import (
	"github.com/signullgame/signull/internal/dependencies/random"
)

// MockRandom returns queued values instead of random ones, so tests can
// pin down room codes and other generated identifiers. An exhausted queue
// yields zero values; tests that care queue exactly what they consume.
type MockRandom struct {
	ints    []int
	strings []string
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a MockRandom with empty queues
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn pops the next queued int, or 0 when the queue is empty
func (r *MockRandom) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v
}

// String pops the next queued string, or "" when the queue is empty. The
// length and alphabet arguments are ignored; the queued value is returned
// as-is so tests control codes exactly.
func (r *MockRandom) String(length int, alphabet string) string {
	if len(r.strings) == 0 {
		return ""
	}
	v := r.strings[0]
	r.strings = r.strings[1:]
	return v
}

// QueueIntn appends values for Intn to return in order
func (r *MockRandom) QueueIntn(values ...int) {
	r.ints = append(r.ints, values...)
}

// QueueString appends values for String to return in order. Room creation
// consumes one per code attempt, so queue a duplicate to simulate a code
// collision.
func (r *MockRandom) QueueString(values ...string) {
	r.strings = append(r.strings, values...)
}

// Reset empties both queues
func (r *MockRandom) Reset() {
	r.ints = nil
	r.strings = nil
}

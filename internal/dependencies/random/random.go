package random

import (
	"crypto/rand"
	"math/big"
)

// Random provides random value generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// Source implements Random backed by crypto/rand. Room codes and session
// tokens come from here, so a weaker generator is not an option.
type Source struct{}

// New creates a crypto/rand-backed Source
func New() *Source {
	return &Source{}
}

func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func (s *Source) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[s.Intn(len(alphabet))]
	}
	return string(out)
}

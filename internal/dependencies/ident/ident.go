package ident

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Source provides id generation that can be mocked for testing
type Source interface {
	// NewID returns a globally unique identifier
	NewID() string

	// Code generates a short random code of the given length, suitable
	// for user-facing session ids
	Code(length int) string
}

// codeAlphabet omits characters that are easy to misread (0/O, 1/I/L)
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// RandomSource implements Source using UUIDs and crypto/rand
type RandomSource struct{}

// New creates a new RandomSource
func New() *RandomSource {
	return &RandomSource{}
}

// NewID returns a random UUID string
func (s *RandomSource) NewID() string {
	return uuid.NewString()
}

// Code generates a random code of the given length from the code alphabet
func (s *RandomSource) Code(length int) string {
	if length <= 0 {
		return ""
	}
	result := make([]byte, length)
	for i := range result {
		result[i] = codeAlphabet[intn(len(codeAlphabet))]
	}
	return string(result)
}

// intn returns a cryptographically random int in [0, n)
func intn(n int) int {
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// Should never happen with crypto/rand
		return 0
	}
	return int(result.Int64())
}

// Package idgen generates per-instance identifiers for expanded elements.
package idgen

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	// Alphabet is the default identifier alphabet.
	Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// Size is the default identifier length.
	Size = 7
)

// Func returns a new identifier on each call.
type Func func() string

// New returns a generator of random identifiers of the given size drawn from
// alphabet. It panics if the alphabet or size is rejected by the generator.
func New(alphabet string, size int) Func {
	// Validate eagerly so misuse fails at construction, not mid-render.
	gonanoid.MustGenerate(alphabet, size)
	return func() string {
		return gonanoid.MustGenerate(alphabet, size)
	}
}

// Default returns the generator used when none is configured.
func Default() Func {
	return New(Alphabet, Size)
}

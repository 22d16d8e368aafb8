package chat

import "math/rand/v2"

// Rand is the source of randomness used for default display names and join
// phrases. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

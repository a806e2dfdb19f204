package dnsclient

import "math/rand/v2"

// Rand supplies the randomness used for transaction-ID masking and
// answer shuffling. It is an injection point so tests can substitute a
// deterministic source; implementations must be safe for concurrent use.
type Rand interface {
	Uint16() uint16
	Shuffle(n int, swap func(i, j int))
}

// systemRand is the default Rand, backed by the top-level math/rand/v2
// functions, which are safe for concurrent use.
type systemRand struct{}

func (systemRand) Uint16() uint16 {
	return uint16(rand.Uint32())
}

func (systemRand) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

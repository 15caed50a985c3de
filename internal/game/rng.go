package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed draws a seed from the OS entropy pool. Games created with a zero
// seed call this once so that every run still gets a distinct maze while
// the rest of the engine stays fully deterministic.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// newRand builds the single source a Game draws from. Maze carving wants
// reproducible sequences, not cryptographic strength.
func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- deterministic replay is the point
}

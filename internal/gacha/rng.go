package gacha

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource yields uniform floats in [0,1). One roll consumes
// exactly one unit of randomness from it.
type RandomSource interface {
	Float64() float64
}

// cryptoSource reads the OS entropy pool. It carries no state, so a
// single value is safe to share across goroutines. An entropy read
// failing means the host itself is broken; that panics rather than
// quietly handing back weaker randomness.
type cryptoSource struct{}

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		panic("gacha: OS entropy source failed: " + err.Error())
	}
	// top 53 bits give a uniform dyadic in [0,1)
	u := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

// DefaultSource returns the crypto-backed source used when callers
// pass a nil RandomSource.
func DefaultSource() RandomSource { return cryptoSource{} }

// seededSource wraps a PCG stream for reproducible simulation runs.
// Not safe for concurrent use; give each worker its own.
type seededSource struct{ r *rand.Rand }

// NewSeededSource returns a deterministic source for the given seed.
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 { return s.r.Float64() }

// splitSeed derives a child seed from a base seed and an index, so
// parallel workers draw from independent streams. SplitMix64 finalizer.
func splitSeed(base, index uint64) uint64 {
	z := base + (index+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Package rng derives shared seeds so every viewer of an encounter makes the
// same random choices without a server.
package rng

import (
	"math/bits"
	"math/rand"
	"strconv"
)

// New returns a generator for seed. Zero is remapped so an unset seed still
// yields a usable stream.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

// Salted returns a generator for seed offset by salt, for decision points that
// must not share a stream.
func Salted(seed int32, salt int64) *rand.Rand {
	return New(int64(seed) + salt)
}

// HashToRngSeed folds a user string into a seed: each code point is rotated
// left by its index and summed with wrapping arithmetic.
func HashToRngSeed(s string) int32 {
	var sum uint32
	for i, r := range []rune(s) {
		sum += bits.RotateLeft32(uint32(r), i)
	}
	return int32(sum)
}

// IncrementRngSeed bumps the trailing decimal number of seed, appending "1"
// when there is none. A suffix too large to parse is kept and "1" appended.
func IncrementRngSeed(seed string) string {
	end := len(seed)
	start := end
	for start > 0 && seed[start-1] >= '0' && seed[start-1] <= '9' {
		start--
	}
	var n uint64
	if start < end {
		v, err := strconv.ParseUint(seed[start:end], 10, 32)
		if err == nil {
			n = v
			seed = seed[:start]
		}
	}
	return seed + strconv.FormatUint(n+1, 10)
}

// Shuffle permutes n elements with Fisher-Yates, drawing from r.
func Shuffle(r *rand.Rand, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}

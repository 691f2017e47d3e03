package helper

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// SeedFraction maps an arbitrary seed string to a deterministic fraction in
// [0,1). Documents carry a uniform random key assigned at creation; seeded
// sampling takes documents with key >= fraction in ascending key order and
// wraps around when fewer than requested remain. Identical seed + identical
// data yields identical output.
func SeedFraction(seed string) float64 {
	sum := sha256.Sum256([]byte(seed))
	n := binary.BigEndian.Uint64(sum[:8])
	return float64(n) / math.Exp2(64)
}

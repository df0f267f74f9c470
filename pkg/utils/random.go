package utils

import (
	"math/rand"

	"github.com/google/uuid"
)

// GenerateID создает уникальный ID матча или сессии наблюдателя.
func GenerateID() string {
	return uuid.NewString()
}

// NewRand - детерминированный генератор. seed == 0 означает "взять от времени".
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = rand.Int63()
	}
	return rand.New(rand.NewSource(seed))
}

// RandFloat - равномерно в [lo, hi). При hi <= lo возвращает lo.
func RandFloat(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// Chance - true с вероятностью p.
func Chance(rng *rand.Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}

package main

import (
	"crypto/rand"
	"encoding/hex"
	"math"
	"sync"
)

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Distance returns the distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSq returns the squared distance between two points
func DistanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// CheckCollision checks if two circles overlap
func CheckCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	dist2 := dx*dx + dy*dy
	radSum := r1 + r2
	return dist2 <= radSum*radSum
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// round1 rounds to one decimal place for compact state payloads
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// randFloat returns a random float64 in [0, 1) using a cheap xorshift.
// Seeded from crypto/rand at startup; not for anything security-sensitive.
// The state is shared between the tick goroutine and join handlers, so
// it is mutex-guarded.
var (
	randMu  sync.Mutex
	randSrc uint64
)

func randFloat() float64 {
	randMu.Lock()
	randSrc ^= randSrc << 13
	randSrc ^= randSrc >> 7
	randSrc ^= randSrc << 17
	if randSrc == 0 {
		randSrc = 1
	}
	v := randSrc
	randMu.Unlock()
	return float64(v%10000) / 10000.0
}

// randRange returns a random float64 in [lo, hi)
func randRange(lo, hi float64) float64 {
	return lo + randFloat()*(hi-lo)
}

func init() {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	for i, v := range b {
		randSrc |= uint64(v) << (uint(i) * 8)
	}
	if randSrc == 0 {
		randSrc = 1
	}
}

package main

import (
	"math"

	"github.com/google/uuid"
)

// GenerateID returns a fresh random (v4) UUID string
func GenerateID() string {
	return uuid.NewString()
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

// ClampInt restricts v to [min, max]
func ClampInt(v, min, max int) int {
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

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// randSource is the subset of *rand.Rand the simulation draws from
type randSource interface {
	Float64() float64
	Intn(n int) int
}

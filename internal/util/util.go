// Package util holds small shared helpers used across RiskMesh packages.
package util

import "github.com/google/uuid"

// NewID generates a unique identifier for jobs, tasks and events.
func NewID() string { return uuid.NewString() }

// Clamp bounds v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Truncate shortens s to at most n runes, appending an ellipsis when content
// was cut. Rune-safe so multi-byte text is never split mid-character.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

package session

import (
	"strings"
	"time"
)

// ComputeSpeed returns words per minute for typed text over [start, end].
// Elapsed time is floored to one second.
func ComputeSpeed(typed string, start, end time.Time) float64 {
	elapsed := end.Sub(start)
	if elapsed < time.Second {
		elapsed = time.Second
	}
	words := len(strings.Fields(typed))
	return float64(words) / elapsed.Minutes()
}

// ComputeAccuracy returns the percentage of original runes matched at the same
// position in typed. Typed runes past the end of original are ignored.
func ComputeAccuracy(typed, original string) float64 {
	target := []rune(original)
	if len(target) == 0 {
		return 0
	}
	input := []rune(typed)
	n := len(input)
	if len(target) < n {
		n = len(target)
	}
	matches := 0
	for i := 0; i < n; i++ {
		if input[i] == target[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(target)) * 100
}

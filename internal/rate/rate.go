// Package rate computes speaking pace from a transcript and audio length.
package rate

import (
	"math"
	"strings"
)

// WordCount is the number of whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// WordsPerMinute returns words/minutes, or exactly 0 when there are no words
// or the duration is not a positive finite number.
func WordsPerMinute(text string, minutes float64) float64 {
	words := WordCount(text)
	if words == 0 || !(minutes > 0) || math.IsInf(minutes, 1) {
		return 0
	}
	return float64(words) / minutes
}

// Round rounds to the given number of decimal places for display.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

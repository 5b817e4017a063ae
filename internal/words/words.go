// Package words splits text into words.
package words

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidInput is returned for split indices that are negative or not
// strictly increasing.
var ErrInvalidInput = errors.New("invalid split indices")

// Split cuts s at the given rune indices. The rune at each index is a
// separator and is dropped, so the result always has len(indices)+1 pieces.
// Indices past the end of s are allowed: the pieces they bound come back
// empty or truncated, since typed input can be shorter than the text whose
// separators are being applied to it.
func Split(s string, indices []int) ([]string, error) {
	for i, idx := range indices {
		if idx < 0 {
			return nil, fmt.Errorf("%w: index %d is negative", ErrInvalidInput, idx)
		}
		if i > 0 && idx <= indices[i-1] {
			return nil, fmt.Errorf("%w: index %d follows %d", ErrInvalidInput, idx, indices[i-1])
		}
	}
	runes := []rune(s)
	if len(indices) == 0 {
		return []string{s}, nil
	}
	out := make([]string, 0, len(indices)+1)
	start := 0
	for _, idx := range indices {
		out = append(out, slice(runes, start, idx))
		start = idx + 1
	}
	out = append(out, slice(runes, start, len(runes)))
	return out, nil
}

// SpaceIndices returns the rune positions of whitespace in s.
func SpaceIndices(s string) []int {
	var indices []int
	i := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			indices = append(indices, i)
		}
		i++
	}
	return indices
}

// Fields splits s around runs of whitespace.
func Fields(s string) []string {
	return strings.Fields(s)
}

func slice(runes []rune, start, end int) string {
	if start > len(runes) {
		start = len(runes)
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}

// Package metrics computes typing speed and accuracy for a finished quote.
package metrics

import (
	"errors"
	"time"

	"github.com/verte-zerg/spede/internal/words"
)

var (
	// ErrDivisionUndefined is returned when the quote has no words.
	ErrDivisionUndefined = errors.New("quote has no words")
	// ErrNonPositiveElapsed is returned when no time passed between start and end.
	ErrNonPositiveElapsed = errors.New("elapsed time must be positive")
)

// Result holds the metrics of one completed quote.
type Result struct {
	CorrectWords int
	WordCount    int
	Elapsed      time.Duration
	AdjustedWPM  float64
	Accuracy     float64
}

// Compute scores input against quote.
//
// Words are compared by position: input is cut at the whitespace positions of
// the quote instead of being tokenized on its own, so an extra or missing
// space shifts every following word and counts them as wrong.
func Compute(start, now time.Time, quote, input string) (Result, error) {
	reference := words.Fields(quote)
	if len(reference) == 0 {
		return Result{}, ErrDivisionUndefined
	}
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return Result{}, ErrNonPositiveElapsed
	}

	typed, err := words.Split(clamp(input, quote), words.SpaceIndices(quote))
	if err != nil {
		return Result{}, err
	}

	correct := 0
	for i, want := range reference {
		if i < len(typed) && typed[i] == want {
			correct++
		}
	}

	minuteFactor := 60 / elapsed.Seconds()
	return Result{
		CorrectWords: correct,
		WordCount:    len(reference),
		Elapsed:      elapsed,
		AdjustedWPM:  float64(correct) * minuteFactor,
		Accuracy:     float64(correct) / float64(len(reference)),
	}, nil
}

func clamp(input, quote string) string {
	limit := len([]rune(quote))
	runes := []rune(input)
	if len(runes) <= limit {
		return input
	}
	return string(runes[:limit])
}

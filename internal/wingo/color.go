package wingo

import "fmt"

// ColorOf maps a winning digit to its colour class: 0 and 5 are violet,
// odd digits red, even digits green.
func ColorOf(n int) (Color, error) {
	switch n {
	case 0, 5:
		return Violet, nil
	case 1, 3, 7, 9:
		return Red, nil
	case 2, 4, 6, 8:
		return Green, nil
	}
	return "", fmt.Errorf("%w: got %d", ErrInvalidNumber, n)
}

// NewOutcome validates a caller-supplied result pair. A mismatched colour is
// rejected, never corrected.
func NewOutcome(n int, c Color) (Outcome, error) {
	want, err := ColorOf(n)
	if err != nil {
		return Outcome{}, err
	}
	if c != want {
		return Outcome{}, fmt.Errorf("%w: %d is %s, got %q", ErrInconsistentColor, n, want, c)
	}
	return Outcome{WinningNumber: n, ColorResult: c}, nil
}

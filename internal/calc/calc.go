// Package calc holds the training and nutrition calculators. Every function is
// pure; results are rounded the way the app displays them.
package calc

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is wrapped by every validation error in this package.
var ErrInvalidInput = errors.New("invalid input")

type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// round rounds half up, matching what the screens show.
func round(x float64) float64 { return math.Floor(x + 0.5) }

func round1(x float64) float64 { return math.Floor(x*10+0.5) / 10 }

func roundInt(x float64) int { return int(round(x)) }

func clamp(x, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, x)) }

func (s Sex) valid() error {
	switch s {
	case Male, Female:
		return nil
	default:
		return invalid("sex %q", s)
	}
}

package calc

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// Trapz integrates the tabulated function (xs, ys) with the trapezoid rule.
// xs must be sorted in increasing order and contain at least two points.
func Trapz(xs, ys []float64) float64 {
	if len(xs) != len(ys) {
		panic("Length of ys and xs are not the same.")
	}
	return integrate.Trapezoidal(xs, ys)
}

// Linspace returns n uniformly spaced points from lo to hi, inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// LogSpace returns n logarithmically spaced points from lo to hi, inclusive.
// Both bounds must be positive.
func LogSpace(lo, hi float64, n int) []float64 {
	return floats.LogSpan(make([]float64, n), lo, hi)
}

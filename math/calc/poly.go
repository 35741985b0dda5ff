package calc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Poly is a polynomial in the shifted and scaled variable t = (x - Shift) /
// Scale. Coeffs are ordered from the constant term upwards. The change of
// variables keeps the Vandermonde matrix well conditioned when x is far from
// zero and does not change the least-squares solution.
type Poly struct {
	Coeffs       []float64
	Shift, Scale float64
}

// Polyfit finds the degree deg polynomial which minimizes the squared
// residuals to the points (xs, ys). It is an exact linear least squares solve
// (via QR) with no weighting or regularization, so identical inputs always
// give identical coefficients.
func Polyfit(xs, ys []float64, deg int) (*Poly, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("Polyfit given %d xs but %d ys.",
			len(xs), len(ys))
	} else if deg < 0 {
		return nil, fmt.Errorf("Polyfit given negative degree %d.", deg)
	} else if len(xs) < deg+1 {
		return nil, fmt.Errorf("Polyfit needs at least %d points for a "+
			"degree %d fit, but was given %d.", deg+1, deg, len(xs))
	}

	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("Polyfit given non-finite x = %g.", x)
		}
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	p := &Poly{Shift: (lo + hi) / 2, Scale: (hi - lo) / 2}
	if p.Scale == 0 { p.Scale = 1 }

	n, m := len(xs), deg+1
	a := mat.NewDense(n, m, nil)
	for i, x := range xs {
		t, ti := p.t(x), 1.0
		for j := 0; j < m; j++ {
			a.Set(i, j, ti)
			ti *= t
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), ys...))

	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("Polyfit could not solve the least squares "+
			"system: %w", err)
	}

	p.Coeffs = make([]float64, m)
	for j := range p.Coeffs { p.Coeffs[j] = c.AtVec(j) }
	return p, nil
}

func (p *Poly) t(x float64) float64 { return (x - p.Shift) / p.Scale }

// Eval evaluates the polynomial at x using Horner's rule.
func (p *Poly) Eval(x float64) float64 {
	t, sum := p.t(x), 0.0
	for j := len(p.Coeffs) - 1; j >= 0; j-- {
		sum = sum*t + p.Coeffs[j]
	}
	return sum
}

// EvalAll evaluates the polynomial at every point in xs. An optional output
// slice can be supplied to prevent heap allocations.
func (p *Poly) EvalAll(xs []float64, out ...[]float64) []float64 {
	if len(out) == 0 { out = [][]float64{make([]float64, len(xs))} }
	for i := range xs { out[0][i] = p.Eval(xs[i]) }
	return out[0]
}

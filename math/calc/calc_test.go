package calc

import (
	"math"
	"testing"
)

func almostEq(x, y, eps float64) bool {
	return math.Abs(x-y) <= eps
}

func TestDeriv(t *testing.T) {
	xs := Linspace(0, 1, 21)
	ys := make([]float64, len(xs))
	for i, x := range xs { ys[i] = x * x * x }

	tests := []struct {
		order int
		eps   float64
	}{
		{2, 1e-2},
		{4, 1e-10},
	}

	for _, test := range tests {
		out := make([]float64, len(xs))
		Deriv(xs, ys, test.order, Out(out))
		for i, x := range xs {
			if !almostEq(out[i], 3*x*x, test.eps) {
				t.Errorf("order %d) f'(%g) = %g, expected %g.",
					test.order, x, out[i], 3*x*x)
			}
		}
	}
}

func TestPolyfitExact(t *testing.T) {
	// A quartic should be recovered exactly, even far from the origin.
	f := func(x float64) float64 {
		return 0.3 - 0.2*x + 0.05*x*x - 0.001*x*x*x + 2e-5*x*x*x*x
	}
	xs := []float64{6, 7, 8, 9, 10, 10.8, 12, 13, 14, 15, 16}
	ys := make([]float64, len(xs))
	for i := range xs { ys[i] = f(xs[i]) }

	p, err := Polyfit(xs, ys, 4)
	if err != nil {
		t.Fatalf("Polyfit returned error: %s", err.Error())
	}
	for _, x := range []float64{5, 6.5, 11, 16, 18} {
		if !almostEq(p.Eval(x), f(x), 1e-9) {
			t.Errorf("p(%g) = %g, expected %g.", x, p.Eval(x), f(x))
		}
	}
}

func TestPolyfitLine(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 3, 2, 4}

	p, err := Polyfit(xs, ys, 1)
	if err != nil {
		t.Fatalf("Polyfit returned error: %s", err.Error())
	}
	// Ordinary least squares: slope 0.8, intercept 1.3.
	out := p.EvalAll([]float64{0, 10})
	if !almostEq(out[0], 1.3, 1e-12) || !almostEq(out[1], 9.3, 1e-12) {
		t.Errorf("Line fit evaluates to %g at 0 and %g at 10.", out[0], out[1])
	}
}

func TestPolyfitDeterministic(t *testing.T) {
	xs := []float64{6, 7, 8, 10, 11, 14, 16}
	ys := []float64{-1, -0.95, -0.9, -0.8, -0.7, -0.5, -0.28}
	p1, _ := Polyfit(xs, ys, 4)
	p2, _ := Polyfit(xs, ys, 4)
	for j := range p1.Coeffs {
		if p1.Coeffs[j] != p2.Coeffs[j] {
			t.Errorf("Coefficient %d differs between identical fits.", j)
		}
	}
}

func TestPolyfitErrors(t *testing.T) {
	if _, err := Polyfit([]float64{1, 2}, []float64{1}, 1); err == nil {
		t.Errorf("No error on mismatched lengths.")
	}
	if _, err := Polyfit([]float64{1, 2, 3}, []float64{1, 2, 3}, 4); err == nil {
		t.Errorf("No error on underdetermined fit.")
	}
	if _, err := Polyfit(
		[]float64{1, math.NaN(), 3}, []float64{1, 2, 3}, 1,
	); err == nil {
		t.Errorf("No error on NaN input.")
	}
}

func TestTrapz(t *testing.T) {
	xs := Linspace(0, 1, 1001)
	ys := make([]float64, len(xs))
	for i, x := range xs { ys[i] = x * x }
	if v := Trapz(xs, ys); !almostEq(v, 1.0/3, 1e-6) {
		t.Errorf("Trapz of x^2 on [0, 1] = %g.", v)
	}
}

func TestSpaces(t *testing.T) {
	xs := Linspace(0, 1, 5)
	if len(xs) != 5 || xs[0] != 0 || xs[4] != 1 || !almostEq(xs[1], 0.25, 1e-15) {
		t.Errorf("Linspace(0, 1, 5) = %v.", xs)
	}
	ms := LogSpace(1e12, 1e15, 4)
	for i, m := range []float64{1e12, 1e13, 1e14, 1e15} {
		if math.Abs(ms[i]-m) > 1e-9*m {
			t.Errorf("LogSpace(1e12, 1e15, 4)[%d] = %g.", i, ms[i])
		}
	}
}

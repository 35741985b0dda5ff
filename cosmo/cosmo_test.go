package cosmo

import (
	"math"
	"testing"
)

func almostEq(x, y, eps float64) bool {
	return math.Abs(x-y) <= eps*math.Abs(y)
}

func TestRhoAverage(t *testing.T) {
	if RhoAverage(0.3089) != 0.3089*RhoCritH2 {
		t.Errorf("RhoAverage(0.3089) = %g.", RhoAverage(0.3089))
	}
}

func TestE(t *testing.T) {
	tests := []struct {
		omegaM, z, e float64
	}{
		{0.3, 0, 1},
		{1, 1, math.Pow(2, 1.5)},
		{0.3089, 2, math.Sqrt(0.3089*27 + 0.6911)},
	}

	for i, test := range tests {
		e := E(test.omegaM, test.z)
		if !almostEq(e, test.e, 1e-12) {
			t.Errorf("%d) E(%g, %g) = %g, expected %g.",
				i, test.omegaM, test.z, e, test.e)
		}
	}

	for _, omegaM := range []float64{0.01, 0.3089, 0.99} {
		for _, z := range []float64{0, 0.5, 3, 100} {
			e := E(omegaM, z)
			if math.IsNaN(e) || e <= 0 {
				t.Errorf("E(%g, %g) = %g.", omegaM, z, e)
			}
		}
	}
}

func TestGrowthEinsteinDeSitter(t *testing.T) {
	for _, z := range []float64{0, 0.5, 1, 4, 20} {
		d := GrowthUnnormalized(1, z)
		if !almostEq(d, 1/(1+z), 1e-8) {
			t.Errorf("GrowthUnnormalized(1, %g) = %.10g, expected %.10g.",
				z, d, 1/(1+z))
		}
	}
}

func TestGrowthPlanck(t *testing.T) {
	d0 := GrowthUnnormalized(0.3089, 0)
	if d0 < 0.75 || d0 > 0.82 {
		t.Errorf("GrowthUnnormalized(0.3089, 0) = %g.", d0)
	}

	prev := d0
	for _, z := range []float64{0.1, 0.5, 1, 2, 5, 10, 50} {
		d := GrowthUnnormalized(0.3089, z)
		if math.IsNaN(d) || math.IsInf(d, 0) || d >= prev {
			t.Errorf("GrowthUnnormalized(0.3089, %g) = %g, previous %g.",
				z, d, prev)
		}
		prev = d
	}

	// Matter dominated at high z.
	if z := 200.0; !almostEq(GrowthUnnormalized(0.3089, z), 1/(1+z), 1e-3) {
		t.Errorf("Growth does not approach 1/(1+z) at z = %g.", z)
	}
}

func TestGrowthRatio(t *testing.T) {
	if GrowthRatio(0.3089, 0) != 1 {
		t.Errorf("GrowthRatio at z = 0 isn't 1.")
	}
	r := GrowthRatio(0.3089, 1)
	if r < 0.55 || r > 0.65 {
		t.Errorf("GrowthRatio(0.3089, 1) = %g.", r)
	}
}

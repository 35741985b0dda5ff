package cosmo

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

const (
	growthMinOrder = 8
	growthMaxOrder = 1 << 12
	growthRelTol   = 1e-12
)

// GrowthUnnormalized returns the linear growth factor of a flat LCDM
// universe,
//
//     D(z) = 5 OmegaM E(z) / 2 * Int_z^inf (1 + z') / E(z')^3 dz'.
//
// The improper integral is mapped onto the finite interval u in
// [0, (1+z)^-1/2] with a = 1/(1+z') = u^2, which turns the integrand into the
// smooth function 2 u^4 / (OmegaM + OmegaL u^6)^(3/2). That integral is then
// evaluated with Gauss-Legendre rules of doubling order until successive
// estimates agree to a relative tolerance of 1e-12.
func GrowthUnnormalized(omegaM, z float64) float64 {
	omegaL := 1 - omegaM
	f := func(u float64) float64 {
		u2 := u * u
		return 2 * u2 * u2 / math.Pow(omegaM+omegaL*u2*u2*u2, 1.5)
	}
	uMax := 1 / math.Sqrt(1+z)

	prev := quad.Fixed(f, 0, uMax, growthMinOrder, quad.Legendre{}, 0)
	integral := prev
	for n := 2 * growthMinOrder; n <= growthMaxOrder; n *= 2 {
		integral = quad.Fixed(f, 0, uMax, n, quad.Legendre{}, 0)
		if math.Abs(integral-prev) <= growthRelTol*math.Abs(integral) {
			break
		}
		prev = integral
	}

	return 2.5 * omegaM * E(omegaM, z) * integral
}

// GrowthRatio returns D(z) / D(0), the factor linear fluctuations at
// redshift z are suppressed by relative to today.
func GrowthRatio(omegaM, z float64) float64 {
	if z == 0 { return 1 }
	return GrowthUnnormalized(omegaM, z) / GrowthUnnormalized(omegaM, 0)
}

/*package cosmo contains background cosmology routines: expansion history,
characteristic densities and the linear growth factor.
*/
package cosmo

import (
	"math"
)

// HubbleFrac calculates h(z) = H(z)/H0. Here H(z) is from Hubble's Law,
// H(z)**2 + k (c/a)**2 = H0**2 h100**2 (OmegaR a**-4 + OmegaM a**-3 + OmegaL).
// Assumes k, r = 0.
func HubbleFrac(omegaM, omegaL, z float64) float64 {
	return math.Sqrt(omegaM*math.Pow(1.0+z, 3.0) + omegaL)
}

// E is HubbleFrac for a flat universe, E(z) = sqrt(OmegaM (1+z)^3 + 1 - OmegaM).
func E(omegaM, z float64) float64 {
	return HubbleFrac(omegaM, 1-omegaM, z)
}

// RhoAverage calculates the comoving average density of matter in the
// universe. The returned value is in cosmological units.
func RhoAverage(omegaM float64) float64 {
	return omegaM * RhoCritH2
}

package hmf

import (
	"fmt"
	"math"
)

// sigmaPivot is the delta_c the non-linear correction and the barrier are
// expressed in units of.
const sigmaPivot = 1.676

// sigmaLinear asks the variance source for sigma_lin at the Lagrangian radius
// of every mass and checks that all of the returned values are usable.
func (m *Model) sigmaLinear(ms []float64) ([]float64, error) {
	if err := checkMasses(ms); err != nil { return nil, err }
	rs := m.Radius(ms)

	sigs, err := m.src.SigmaLinear(rs, m.z, m.ps)
	if err != nil {
		if len(ms) == 1 {
			return nil, &VarianceComputationError{
				Mass: ms[0], Radius: rs[0], Sigma: math.NaN(), Err: err,
			}
		}
		return nil, &VarianceComputationError{
			Index: -1, Mass: math.NaN(), Radius: math.NaN(),
			Sigma: math.NaN(), Err: err,
		}
	}
	if len(sigs) != len(rs) {
		return nil, &VarianceComputationError{
			Index: -1, Mass: math.NaN(), Radius: math.NaN(),
			Sigma: math.NaN(), Err: fmt.Errorf("variance source returned "+
				"%d values for %d radii", len(sigs), len(rs)),
		}
	}

	for i, sig := range sigs {
		if !(sig > 0) || math.IsInf(sig, 0) {
			return nil, &VarianceComputationError{
				Index: i, Mass: ms[i], Radius: rs[i], Sigma: sig,
			}
		}
	}
	return sigs, nil
}

// nonLinearSigma applies the calibrated correction
// sigma^2 -> sigma^2 + U(sigma / 1.676)^2 to sigma_lin.
func nonLinearSigma(sigLin float64) float64 {
	x := sigLin / sigmaPivot
	u := ((-0.00221*x+0.03835)*x+0.17810)*x - 0.01507
	return math.Sqrt(sigLin*sigLin + u*u)
}

// Sigma returns the corrected rms density fluctuation sigma(M) for each mass.
func (m *Model) Sigma(ms []float64) ([]float64, error) {
	sigs, err := m.sigmaLinear(ms)
	if err != nil { return nil, err }
	for i := range sigs { sigs[i] = nonLinearSigma(sigs[i]) }
	return sigs, nil
}

// SigmaAt is Sigma for a single mass.
func (m *Model) SigmaAt(mass float64) (float64, error) {
	return scalar(m.Sigma, mass)
}

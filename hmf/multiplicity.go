package hmf

import (
	"math"

	"github.com/phil-mansfield/hmf/math/calc"
)

// barrier returns the calibrated collapse barrier delta_c for a halo with
// linear sigma sigLin and bias b.
func (mdef *MassDefinition) barrier(sigLin, b float64) float64 {
	x := sigLin / sigmaPivot
	term1 := math.Pow(1+0.845*x-0.04*x*x+0.0025*x*x*x, mdef.B)
	term2 := mdef.A * 1.365 * math.Pow(1+mdef.E*b-mdef.F*b*b, mdef.D)
	return term1 * term2
}

// normalization computes
//
//     V = 3 Int_0^1 erfc(cte sqrt((1 - e^(-c xi^2)) / (1 + e^(-c xi^2)))) xi^2 dxi
//
// with the trapezoid rule on the uniform grid xis. ys is a buffer of the same
// length as xis.
func normalization(cte, c float64, xis, ys []float64) float64 {
	for j, xi := range xis {
		e := math.Exp(-c * xi * xi)
		ys[j] = math.Erfc(cte*math.Sqrt((1-e)/(1+e))) * xi * xi
	}
	return 3 * calc.Trapz(xis, ys)
}

// F returns the multiplicity function F(M) for each mass.
func (m *Model) F(ms []float64) ([]float64, error) {
	b, err := m.Bias(ms)
	if err != nil { return nil, err }
	sig, err := m.Sigma(ms)
	if err != nil { return nil, err }
	// The barrier needs sigma_lin rather than the corrected sigma.
	sigLin, err := m.sigmaLinear(ms)
	if err != nil { return nil, err }
	c, err := m.Concentration(ms)
	if err != nil { return nil, err }

	xis := calc.Linspace(0, 1, m.gridSize)
	ys := make([]float64, len(xis))

	out := make([]float64, len(ms))
	for i := range ms {
		deltaC := m.mdef.barrier(sigLin[i], b[i])
		cte := deltaC / (math.Sqrt2 * sig[i])

		v := normalization(cte, c[i], xis, ys)
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, &NumericalIntegrationError{
				Index: i, Mass: ms[i], Cte: cte, Concentration: c[i], V: v,
			}
		}

		out[i] = math.Erfc(0.98*cte) / v
	}

	return out, nil
}

// FAt is F for a single mass.
func (m *Model) FAt(mass float64) (float64, error) {
	return scalar(m.F, mass)
}

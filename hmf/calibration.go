package hmf

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/hmf/math/calc"
)

// CalibrationDegree is the degree of the polynomial fit to calibration tables
// in (log10 M, log10 value) space.
const CalibrationDegree = 4

// CalibrationTable is a fixed set of (mass, value) anchor points which a
// calibrated relation is fit through. Masses are in Msun/h.
type CalibrationTable struct {
	Name   string
	Masses []float64
	Values []float64
}

// BiasTable anchors the bias relation b(M).
var BiasTable = CalibrationTable{
	Name: "bias",
	Masses: []float64{1e16, 1e15, 1e14, 6.5e10, 1e10, 1e9, 1e8, 1e7, 1e6},
	Values: []float64{
		0.5259, 0.415, 0.328, 0.1764, 0.1552, 0.1308, 0.1179, 0.1045, 0.094,
	},
}

// ConcentrationTable anchors the concentration relation c(M).
var ConcentrationTable = CalibrationTable{
	Name: "concentration",
	Masses: []float64{
		3e15, 3e14, 3e13, 3e12, 3e11, 3e10, 3e9, 3e8, 3e7, 3e6,
		1e10, 1e9, 1e8, 1e7, 1e6,
	},
	Values: []float64{
		0.613, 0.474, 0.373, 0.301, 0.249, 0.209, 0.1794, 0.1560, 0.1355,
		0.1223, 0.1942, 0.168, 0.1466, 0.1298, 0.1161,
	},
}

// Fit fits a degree CalibrationDegree polynomial to the table in log-log
// space.
func (t CalibrationTable) Fit() (*calc.Poly, error) {
	if len(t.Masses) != len(t.Values) {
		return nil, fmt.Errorf("hmf: calibration table %s has %d masses "+
			"but %d values", t.Name, len(t.Masses), len(t.Values))
	}

	logM := make([]float64, len(t.Masses))
	logV := make([]float64, len(t.Values))
	for i := range t.Masses {
		if t.Masses[i] <= 0 || t.Values[i] <= 0 {
			return nil, fmt.Errorf("hmf: calibration table %s has "+
				"non-positive anchor (%g, %g)",
				t.Name, t.Masses[i], t.Values[i])
		}
		logM[i], logV[i] = math.Log10(t.Masses[i]), math.Log10(t.Values[i])
	}

	poly, err := calc.Polyfit(logM, logV, CalibrationDegree)
	if err != nil {
		return nil, fmt.Errorf("hmf: fitting calibration table %s: %w",
			t.Name, err)
	}
	return poly, nil
}

// Eval refits the table and evaluates the fit at every mass in ms. Masses
// outside the anchor range are extrapolated, not rejected.
func (t CalibrationTable) Eval(ms []float64) ([]float64, error) {
	if err := checkMasses(ms); err != nil { return nil, err }

	poly, err := t.Fit()
	if err != nil { return nil, err }

	out := make([]float64, len(ms))
	for i, m := range ms { out[i] = math.Log10(m) }
	poly.EvalAll(out, out)
	for i := range out { out[i] = math.Pow(10, out[i]) }
	return out, nil
}

func checkMasses(ms []float64) error {
	for i, m := range ms {
		if !(m > 0) || math.IsInf(m, 0) {
			return &MassError{Index: i, Mass: m}
		}
	}
	return nil
}

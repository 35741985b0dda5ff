package hmf

// logStep is the fractional mass step used to difference F(M).
const logStep = 0.01

// N0 returns the differential mass function dn/dlnM, in (Mpc/h)^-3, for each
// mass. The derivative is the one-sided difference
//
//     dn/dlnM = (F(M) - F((1+s)M)) / s * rho_m / (M (1 + s/2))
//
// with s = 0.01, which is the form the model was calibrated with. Negative
// values are returned as-is and logged.
func (m *Model) N0(ms []float64) ([]float64, error) {
	f, err := m.F(ms)
	if err != nil { return nil, err }

	msStep := make([]float64, len(ms))
	for i := range ms { msStep[i] = (1 + logStep) * ms[i] }
	fStep, err := m.F(msStep)
	if err != nil { return nil, err }

	out := make([]float64, len(ms))
	for i := range ms {
		der := (f[i] - fStep[i]) / logStep
		out[i] = der * m.rhoM / (ms[i] * (1 + logStep/2))
		if out[i] < 0 {
			m.logger.Warn("Negative dn/dlnM: F(M) is increasing with mass, "+
				"which usually means M is far outside the calibrated range",
				"mass", ms[i], "dn_dlnM", out[i],
				"F", f[i], "F_step", fStep[i])
		}
	}
	return out, nil
}

// N0At is N0 for a single mass.
func (m *Model) N0At(mass float64) (float64, error) {
	return scalar(m.N0, mass)
}

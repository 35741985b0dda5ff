package hmf

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/hmf/math/calc"
)

// powerLawSigma is a stand-in for a real power spectrum: sigma_lin = 0.8159 at
// R = 8 Mpc/h with a local slope of -1/2, scaled by 1/(1+z).
func powerLawSigma(
	rs []float64, z float64, ps PowerSpectrum,
) ([]float64, error) {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = 0.8159 * math.Pow(r/8, -0.5) / (1 + z)
	}
	return out, nil
}

func newTestModel(t *testing.T, opts ...Option) *Model {
	m, err := New(DefaultConfig(), VarianceFunc(powerLawSigma), opts...)
	require.NoError(t, err)
	return m
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func TestNewDefaults(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, DefaultOmegaM, m.OmegaM())
	assert.Equal(t, 0.0, m.Redshift())
	assert.Equal(t, M200b, m.MassDefinition())
	assert.InDelta(t, DefaultOmegaM*m.RhoCrit(), m.RhoM(), 1e-3)
	assert.InEpsilon(t, m.DUnnormalized(0), m.D0(), 1e-15)
	assert.True(t, m.D0() > 0.7 && m.D0() < 0.85, "D0 = %g", m.D0())
}

func TestNewConfigurationErrors(t *testing.T) {
	tests := []struct {
		config Config
		field  string
	}{
		{Config{OmegaM: 0.3, MassDefinition: "m200c"}, "MassDefinition"},
		{Config{OmegaM: 0.3, MassDefinition: ""}, "MassDefinition"},
		{Config{OmegaM: 0, MassDefinition: "m200b"}, "OmegaM"},
		{Config{OmegaM: 1, MassDefinition: "m200b"}, "OmegaM"},
		{Config{OmegaM: math.NaN(), MassDefinition: "m200b"}, "OmegaM"},
		{Config{OmegaM: 0.3, Redshift: -1, MassDefinition: "m200b"},
			"Redshift"},
	}

	for i, test := range tests {
		_, err := New(test.config, VarianceFunc(powerLawSigma))
		require.Error(t, err, "%d) no error", i)
		assert.True(t, errors.Is(err, ErrConfiguration), "%d) %s", i, err)

		var cErr *ConfigurationError
		require.True(t, errors.As(err, &cErr), "%d) %s", i, err)
		assert.Equal(t, test.field, cErr.Field, "%d)", i)
	}

	_, err := New(Config{OmegaM: 0.3, MassDefinition: "m500c"},
		VarianceFunc(powerLawSigma))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supported definitions are 'm200b'")

	_, err = New(DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = New(DefaultConfig(), VarianceFunc(powerLawSigma), WithGridSize(1))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestRadius(t *testing.T) {
	m := newTestModel(t)
	ms := []float64{1e6, 1e13, 4 * math.Pi / 3 * m.RhoM()}
	rs := m.Radius(ms)

	assert.InEpsilon(t, 1.0, rs[2], 1e-12)
	assert.InEpsilon(t, 3.0310, rs[1], 1e-4)
	for i := range ms {
		back := 4 * math.Pi / 3 * m.RhoM() * rs[i] * rs[i] * rs[i]
		assert.InEpsilon(t, ms[i], back, 1e-12)
	}
}

func TestCalibrationReproducesAnchors(t *testing.T) {
	// The largest residual, 1.8%, is the bias anchor at 1e10 Msun/h.
	tables := []struct {
		table CalibrationTable
		eps   float64
	}{
		{BiasTable, 0.02},
		{ConcentrationTable, 0.015},
	}

	for _, test := range tables {
		vals, err := test.table.Eval(test.table.Masses)
		require.NoError(t, err)
		for i := range vals {
			assert.InEpsilon(t, test.table.Values[i], vals[i], test.eps,
				"%s at M = %g", test.table.Name, test.table.Masses[i])
		}
	}
}

func TestCalibrationExtrapolates(t *testing.T) {
	m := newTestModel(t)
	for _, f := range []func([]float64) ([]float64, error){
		m.Bias, m.Concentration,
	} {
		vals, err := f([]float64{1e3, 1e18})
		require.NoError(t, err)
		for _, v := range vals {
			assert.True(t, isFinite(v) && v > 0, "value = %g", v)
		}
	}
}

func TestCalibrationDeterministic(t *testing.T) {
	p1, err := BiasTable.Fit()
	require.NoError(t, err)
	p2, err := BiasTable.Fit()
	require.NoError(t, err)
	assert.Equal(t, p1.Coeffs, p2.Coeffs)
}

func TestCalibrationTableErrors(t *testing.T) {
	bad := CalibrationTable{
		Name: "bad", Masses: []float64{1, 10, 100}, Values: []float64{1, 2},
	}
	_, err := bad.Fit()
	assert.Error(t, err)

	bad.Values = []float64{1, -2, 3}
	_, err = bad.Fit()
	assert.Error(t, err)
}

func TestSigma(t *testing.T) {
	m := newTestModel(t)
	ms := calc.LogSpace(1e10, 1e15, 21)

	sigs, err := m.Sigma(ms)
	require.NoError(t, err)
	require.Len(t, sigs, len(ms))

	for i := range sigs {
		lin, _ := powerLawSigma(m.Radius(ms[i:i+1]), 0, PowerSpectrum{})
		assert.Greater(t, sigs[i], lin[0])
		if i > 0 {
			assert.Less(t, sigs[i], sigs[i-1], "M = %g", ms[i])
		}
	}

	// Hand-evaluated correction at sigma_lin = 1.676.
	x := 1.0
	u := -0.00221*x*x*x + 0.03835*x*x + 0.17810*x - 0.01507
	assert.InEpsilon(t, math.Sqrt(1.676*1.676+u*u), nonLinearSigma(1.676), 1e-14)

	s, err := m.SigmaAt(ms[3])
	require.NoError(t, err)
	assert.Equal(t, sigs[3], s)
}

func TestMassErrors(t *testing.T) {
	m := newTestModel(t)
	for _, ms := range [][]float64{
		{1e12, 0}, {-1e12}, {math.NaN()}, {math.Inf(1)},
	} {
		_, err := m.N0(ms)
		assert.ErrorIs(t, err, ErrInvalidMass, "masses %v", ms)
	}
}

func TestVarianceErrors(t *testing.T) {
	bad := []float64{0, -1, math.NaN(), math.Inf(1)}
	for _, sig := range bad {
		src := VarianceFunc(func(
			rs []float64, z float64, ps PowerSpectrum,
		) ([]float64, error) {
			out, _ := powerLawSigma(rs, z, ps)
			out[len(out)-1] = sig
			return out, nil
		})
		m, err := New(DefaultConfig(), src)
		require.NoError(t, err)

		ms := []float64{1e11, 1e12, 1e13}
		for _, f := range []func([]float64) ([]float64, error){
			m.Sigma, m.F, m.N0,
		} {
			out, err := f(ms)
			assert.Nil(t, out)
			require.ErrorIs(t, err, ErrVarianceComputation)

			var vErr *VarianceComputationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, 2, vErr.Index)
			assert.Equal(t, 1e13, vErr.Mass)
		}
	}

	srcErr := errors.New("no power spectrum")
	m, err := New(DefaultConfig(), VarianceFunc(func(
		rs []float64, z float64, ps PowerSpectrum,
	) ([]float64, error) {
		return nil, srcErr
	}))
	require.NoError(t, err)
	_, err = m.F([]float64{1e12, 1e13})
	assert.ErrorIs(t, err, ErrVarianceComputation)
	assert.ErrorIs(t, err, srcErr)
	_, err = m.SigmaAt(1e12)
	assert.ErrorIs(t, err, srcErr)

	m, err = New(DefaultConfig(), VarianceFunc(func(
		rs []float64, z float64, ps PowerSpectrum,
	) ([]float64, error) {
		out, _ := powerLawSigma(rs, z, ps)
		return out[:len(out)-1], nil
	}))
	require.NoError(t, err)
	for _, f := range []func([]float64) ([]float64, error){
		m.Sigma, m.F, m.N0,
	} {
		out, err := f([]float64{1e12, 1e13})
		assert.Nil(t, out)
		require.ErrorIs(t, err, ErrVarianceComputation)

		var vErr *VarianceComputationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, -1, vErr.Index)
		require.Error(t, vErr.Err)
		assert.Contains(t, vErr.Error(), "1 values for 2 radii")
	}
}

func TestMultiplicity(t *testing.T) {
	m := newTestModel(t)
	ms := calc.LogSpace(1e10, 1e15, 41)

	fs, err := m.F(ms)
	require.NoError(t, err)
	require.Len(t, fs, len(ms))
	for i := range fs {
		assert.True(t, fs[i] > 0 && fs[i] <= 1, "F(%g) = %g", ms[i], fs[i])
		if i > 0 {
			assert.LessOrEqual(t, fs[i], fs[i-1], "M = %g", ms[i])
		}
	}

	f, err := m.FAt(ms[7])
	require.NoError(t, err)
	assert.Equal(t, fs[7], f)
}

func TestMultiplicityGridConvergence(t *testing.T) {
	coarse := newTestModel(t)
	fine := newTestModel(t, WithGridSize(8*DefaultGridSize))
	ms := calc.LogSpace(1e6, 1e16, 11)

	fc, err := coarse.F(ms)
	require.NoError(t, err)
	ff, err := fine.F(ms)
	require.NoError(t, err)
	for i := range ms {
		assert.InEpsilon(t, ff[i], fc[i], 1e-5, "M = %g", ms[i])
	}
}

func TestNormalizationError(t *testing.T) {
	// A barrier of NaN poisons the integral.
	src := VarianceFunc(func(
		rs []float64, z float64, ps PowerSpectrum,
	) ([]float64, error) {
		out := make([]float64, len(rs))
		for i := range out { out[i] = 1e300 }
		return out, nil
	})
	m, err := New(DefaultConfig(), src)
	require.NoError(t, err)

	_, err = m.F([]float64{1e12})
	require.ErrorIs(t, err, ErrNumericalIntegration)
	var nErr *NumericalIntegrationError
	require.True(t, errors.As(err, &nErr))
	assert.Equal(t, 1e12, nErr.Mass)

	xis := calc.Linspace(0, 1, DefaultGridSize)
	ys := make([]float64, len(xis))
	// cte = 0 makes the integrand xi^2.
	assert.InEpsilon(t, 1.0, normalization(0, 0.3, xis, ys), 1e-6)
}

func TestN0(t *testing.T) {
	m := newTestModel(t)

	n, err := m.N0At(1e13)
	require.NoError(t, err)
	assert.True(t, isFinite(n) && n > 0, "n0(1e13) = %g", n)

	ms := calc.LogSpace(1e12, 1e15, 5)
	ns, err := m.N0(ms)
	require.NoError(t, err)
	require.Len(t, ns, 5)
	for i := range ns {
		assert.True(t, isFinite(ns[i]) && ns[i] > 0,
			"n0(%g) = %g", ms[i], ns[i])
		if i > 0 {
			assert.Less(t, ns[i], ns[i-1], "M = %g", ms[i])
		}
	}

	wide := calc.LogSpace(1e10, 1e15, 26)
	ns, err = m.N0(wide)
	require.NoError(t, err)
	for i := range ns {
		assert.GreaterOrEqual(t, ns[i], 0.0, "M = %g", wide[i])
	}
}

func TestN0NegativeIsLogged(t *testing.T) {
	// sigma_lin growing with R makes F increase with mass.
	rising := VarianceFunc(func(
		rs []float64, z float64, ps PowerSpectrum,
	) ([]float64, error) {
		out := make([]float64, len(rs))
		for i, r := range rs { out[i] = 0.8 * math.Pow(r/8, 0.5) }
		return out, nil
	})

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	m, err := New(DefaultConfig(), rising, WithLogger(logger))
	require.NoError(t, err)

	n, err := m.N0At(1e13)
	require.NoError(t, err)
	assert.True(t, isFinite(n) && n < 0, "n0(1e13) = %g", n)

	log := buf.String()
	assert.Contains(t, log, "level=WARN")
	assert.Contains(t, log, "Negative dn/dlnM")
	assert.Contains(t, log, "mass=1e+13")
}

func TestN0MatchesDerivative(t *testing.T) {
	m := newTestModel(t)
	// A fine grid in ln M around 1e13.
	lnMs := calc.Linspace(math.Log(1e13)-0.05, math.Log(1e13)+0.05, 11)
	ms := make([]float64, len(lnMs))
	for i := range lnMs { ms[i] = math.Exp(lnMs[i]) }

	fs, err := m.F(ms)
	require.NoError(t, err)
	dF := calc.Deriv(lnMs, fs, 4)

	n, err := m.N0At(ms[5])
	require.NoError(t, err)
	// The one-sided difference is only first order accurate.
	expected := -dF[5] * m.RhoM() / ms[5]
	assert.InEpsilon(t, expected, n, 0.02)
}

func TestIdempotence(t *testing.T) {
	m := newTestModel(t)
	ms := calc.LogSpace(1e11, 1e15, 9)

	for _, f := range []func([]float64) ([]float64, error){
		m.Sigma, m.Bias, m.Concentration, m.F, m.N0,
	} {
		a, err := f(ms)
		require.NoError(t, err)
		b, err := f(ms)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestRedshiftDependence(t *testing.T) {
	config := DefaultConfig()
	config.Redshift = 1
	high, err := New(config, VarianceFunc(powerLawSigma))
	require.NoError(t, err)
	low := newTestModel(t)

	assert.Less(t, high.DUnnormalized(1), low.D0())
	assert.Equal(t, low.D0(), high.D0())

	nLow, err := low.N0At(1e14)
	require.NoError(t, err)
	nHigh, err := high.N0At(1e14)
	require.NoError(t, err)
	assert.Less(t, nHigh, nLow)
}

func TestEmptySample(t *testing.T) {
	m := newTestModel(t)
	ns, err := m.N0([]float64{})
	require.NoError(t, err)
	assert.Len(t, ns, 0)
}

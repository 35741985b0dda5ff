/*package hmf computes the halo mass function dn/dlnM of an excursion-set
model whose collapse barrier is calibrated against halo bias and
concentration.

The pipeline is

    M -> R(M) -> sigma(M) -> delta_c(M), c(M) -> F(M) -> dn/dlnM

where the linear variance sigma_lin(R, z) is supplied by an external
VarianceSource and everything else is computed here.
*/
package hmf

import (
	"log/slog"
	"math"

	"github.com/phil-mansfield/hmf/cosmo"
)

const (
	DefaultOmegaM         = 0.3089
	DefaultRedshift       = 0.0
	DefaultMassDefinition = "m200b"
	// DefaultGridSize is the number of uniformly spaced points the
	// normalization integral V(M) is sampled at.
	DefaultGridSize = 1000
)

// PowerSpectrum selects the linear power spectrum the VarianceSource should
// use. Path is only meaningful for tabulated models.
type PowerSpectrum struct {
	Model string
	Path  string
}

// VarianceSource computes the rms linear density fluctuation sigma_lin(R, z)
// within top-hat spheres of comoving radius R (Mpc/h).
type VarianceSource interface {
	SigmaLinear(rs []float64, z float64, ps PowerSpectrum) ([]float64, error)
}

// VarianceFunc is an adapter which allows an ordinary function to be used as
// a VarianceSource.
type VarianceFunc func(rs []float64, z float64, ps PowerSpectrum) ([]float64, error)

func (f VarianceFunc) SigmaLinear(
	rs []float64, z float64, ps PowerSpectrum,
) ([]float64, error) {
	return f(rs, z, ps)
}

// Config contains the parameters a Model is constructed from.
type Config struct {
	OmegaM         float64
	Redshift       float64
	MassDefinition string
	PowerSpectrum  PowerSpectrum
}

// DefaultConfig returns the Planck 2015, z = 0, m200b configuration.
func DefaultConfig() Config {
	return Config{
		OmegaM:         DefaultOmegaM,
		Redshift:       DefaultRedshift,
		MassDefinition: DefaultMassDefinition,
	}
}

// Model is a halo mass function model at a fixed cosmology and redshift.
// A Model holds no mutable state after construction, so its methods may be
// called concurrently.
type Model struct {
	omegaM, z float64
	rhoCrit   float64
	rhoM      float64
	d0        float64
	mdef      MassDefinition
	ps        PowerSpectrum
	src       VarianceSource
	gridSize  int
	logger    *slog.Logger
}

type modelParams struct {
	logger   *slog.Logger
	gridSize int
}

type internalOption func(*modelParams)

// Option configures optional Model behavior.
type Option internalOption

// WithLogger sets the logger used by the Model. slog.Default() is used
// otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(p *modelParams) { p.logger = logger }
}

// WithGridSize sets the number of points used to sample the normalization
// integral. This exists to check convergence; the calibrated model uses
// DefaultGridSize.
func WithGridSize(n int) Option {
	return func(p *modelParams) { p.gridSize = n }
}

func (p *modelParams) loadOptions(opts []Option) {
	for _, opt := range opts { opt(p) }
}

// New creates a Model from a Config. src is the collaborator which supplies
// the linear variance.
func New(config Config, src VarianceSource, opts ...Option) (*Model, error) {
	p := &modelParams{gridSize: DefaultGridSize}
	p.loadOptions(opts)
	if p.logger == nil { p.logger = slog.Default() }

	mdef, err := LookupMassDefinition(config.MassDefinition)
	if err != nil { return nil, err }

	switch {
	case !(config.OmegaM > 0 && config.OmegaM < 1):
		return nil, &ConfigurationError{
			Field: "OmegaM", Value: config.OmegaM,
			Reason: "must be in the range (0, 1)",
		}
	case !(config.Redshift >= 0) || math.IsInf(config.Redshift, 0):
		return nil, &ConfigurationError{
			Field: "Redshift", Value: config.Redshift,
			Reason: "must be finite and non-negative",
		}
	case src == nil:
		return nil, &ConfigurationError{
			Field: "VarianceSource", Value: nil, Reason: "must be non-nil",
		}
	case p.gridSize < 2:
		return nil, &ConfigurationError{
			Field: "GridSize", Value: p.gridSize,
			Reason: "must be at least 2",
		}
	}

	m := &Model{
		omegaM:   config.OmegaM,
		z:        config.Redshift,
		rhoCrit:  cosmo.RhoCritH2,
		rhoM:     cosmo.RhoAverage(config.OmegaM),
		mdef:     mdef,
		ps:       config.PowerSpectrum,
		src:      src,
		gridSize: p.gridSize,
		logger:   p.logger,
	}
	// D0 is part of the calibrated model's state but is not applied to
	// sigma anywhere in the pipeline.
	m.d0 = m.DUnnormalized(0)

	m.logger.Debug("Constructed halo mass function model",
		"omega_m", m.omegaM, "z", m.z, "mdef", m.mdef.Name,
		"rho_m", m.rhoM, "D0", m.d0, "power_spectrum", m.ps.Model)

	return m, nil
}

// E returns H(z)/H0 for the Model's cosmology.
func (m *Model) E(z float64) float64 { return cosmo.E(m.omegaM, z) }

// DUnnormalized returns the linear growth factor at z without normalizing it
// to unity today.
func (m *Model) DUnnormalized(z float64) float64 {
	return cosmo.GrowthUnnormalized(m.omegaM, z)
}

// D0 returns DUnnormalized(0), which was computed at construction.
func (m *Model) D0() float64 { return m.d0 }

// OmegaM returns the matter density of the Model.
func (m *Model) OmegaM() float64 { return m.omegaM }

// Redshift returns the redshift of the Model.
func (m *Model) Redshift() float64 { return m.z }

// RhoCrit returns the critical density, in Msun/h / (Mpc/h)^3.
func (m *Model) RhoCrit() float64 { return m.rhoCrit }

// RhoM returns the mean matter density, in Msun/h / (Mpc/h)^3.
func (m *Model) RhoM() float64 { return m.rhoM }

// MassDefinition returns the Model's mass definition.
func (m *Model) MassDefinition() MassDefinition { return m.mdef }

// Radius returns the comoving Lagrangian radius, in Mpc/h, of each mass,
// R = (3 M / (4 pi OmegaM rho_crit))^(1/3).
func (m *Model) Radius(ms []float64) []float64 {
	rs := make([]float64, len(ms))
	for i := range ms {
		rs[i] = math.Cbrt(3 * ms[i] / (4 * math.Pi * m.omegaM * m.rhoCrit))
	}
	return rs
}

// Bias returns the calibrated bias relation b(M).
func (m *Model) Bias(ms []float64) ([]float64, error) {
	return BiasTable.Eval(ms)
}

// Concentration returns the calibrated concentration relation c(M).
func (m *Model) Concentration(ms []float64) ([]float64, error) {
	return ConcentrationTable.Eval(ms)
}

// scalar runs a slice operation on a single mass.
func scalar(
	f func([]float64) ([]float64, error), mass float64,
) (float64, error) {
	out, err := f([]float64{mass})
	if err != nil { return 0, err }
	return out[0], nil
}

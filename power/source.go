/*package power supplies the linear matter variance sigma(R, z) that the halo
mass function is built on, either from a tabulated power spectrum or from an
analytic transfer function normalized to sigma8.
*/
package power

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/phil-mansfield/hmf/cosmo"
	"github.com/phil-mansfield/hmf/hmf"
	"github.com/phil-mansfield/hmf/math/calc"
)

// Supported values of hmf.PowerSpectrum.Model.
const (
	ModelBBKS       = "bbks"
	ModelEH98       = "eh98"
	ModelTable      = "table"
	ModelUchuuTable = "uchuu_table"
)

// Models lists every supported power spectrum model.
var Models = []string{ModelBBKS, ModelEH98, ModelTable, ModelUchuuTable}

// IsTabulated returns true if model reads its spectrum from a file.
func IsTabulated(model string) bool {
	return model == ModelTable || model == ModelUchuuTable
}

const (
	// KGridSize is the number of points in ln(k) the variance integral is
	// sampled at.
	KGridSize = 4096
	theoryKMin = 1e-5
	theoryKMax = 1e4
	sigma8R    = 8.0
)

// Source computes sigma_lin(R, z). Tables and sigma8 normalizations are loaded
// lazily and cached, so a single Source can be shared between goroutines.
type Source struct {
	params cosmo.Params
	logger *slog.Logger

	mu     sync.Mutex
	tables map[string]*Table
	norms  map[string]float64
}

var _ hmf.VarianceSource = &Source{}

// NewSource creates a Source for the given cosmology. The cosmology is only
// used by the analytic models and for the growth factor.
func NewSource(params cosmo.Params, logger *slog.Logger) *Source {
	if logger == nil { logger = slog.Default() }
	return &Source{
		params: params, logger: logger,
		tables: map[string]*Table{}, norms: map[string]float64{},
	}
}

// SigmaLinear returns the rms linear density fluctuation in top-hat spheres
// of each radius rs (Mpc/h) at redshift z. Tabulated spectra are taken to be
// at z = 0.
func (s *Source) SigmaLinear(
	rs []float64, z float64, ps hmf.PowerSpectrum,
) ([]float64, error) {
	pk, kMin, kMax, err := s.spectrum(ps)
	if err != nil { return nil, err }

	growth := cosmo.GrowthRatio(s.params.OmegaM, z)
	lnKs := calc.Linspace(math.Log(kMin), math.Log(kMax), KGridSize)
	pks := pk(expAll(lnKs))
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = math.Sqrt(variance(pks, r, lnKs)) * growth
	}
	return out, nil
}

func expAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs { out[i] = math.Exp(xs[i]) }
	return out
}

// spectrum returns a function evaluating P(k) on a k grid for a model,
// together with the k range it may be integrated over.
func (s *Source) spectrum(
	ps hmf.PowerSpectrum,
) (pk func([]float64) []float64, kMin, kMax float64, err error) {
	switch ps.Model {
	case ModelTable, ModelUchuuTable:
		t, err := s.table(ps.Path)
		if err != nil { return nil, 0, 0, err }
		kMin, kMax = t.KRange()
		return t.PAll, kMin, kMax, nil
	case ModelBBKS, ModelEH98:
		tf := BBKS(s.params)
		if ps.Model == ModelEH98 { tf = EisensteinHu(s.params) }
		norm := s.norm(ps.Model, tf)
		ns := s.params.NS
		pk = func(ks []float64) []float64 {
			out := make([]float64, len(ks))
			for i, k := range ks {
				t := tf(k)
				out[i] = norm * math.Pow(k, ns) * t * t
			}
			return out
		}
		return pk, theoryKMin, theoryKMax, nil
	}
	return nil, 0, 0, fmt.Errorf("power spectrum model '%s' not "+
		"recognized, supported models are %v", ps.Model, Models)
}

func (s *Source) table(path string) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tables[path]; ok { return t, nil }
	if path == "" {
		return nil, fmt.Errorf("tabulated power spectrum requested, but no "+
			"table path was given")
	}
	t, err := ReadTable(path)
	if err != nil { return nil, err }

	kMin, kMax := t.KRange()
	s.logger.Debug("Loaded power spectrum table", "path", path,
		"rows", len(t.LogK), "k_min", kMin, "k_max", kMax)
	s.tables[path] = t
	return t, nil
}

// norm returns the amplitude which gives the unnormalized spectrum
// k^ns T(k)^2 a variance of sigma8^2 at 8 Mpc/h.
func (s *Source) norm(model string, tf TransferFunc) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.norms[model]; ok { return a }
	lnKs := calc.Linspace(math.Log(theoryKMin), math.Log(theoryKMax), KGridSize)
	pks := make([]float64, len(lnKs))
	for i, lnK := range lnKs {
		k := math.Exp(lnK)
		t := tf(k)
		pks[i] = math.Pow(k, s.params.NS) * t * t
	}
	a := s.params.Sigma8 * s.params.Sigma8 / variance(pks, sigma8R, lnKs)
	s.norms[model] = a
	return a
}

// variance integrates
//
//     sigma^2(R) = 1/(2 pi^2) Int k^3 P(k) W(kR)^2 dln(k)
//
// over the grid lnKs with the trapezoid rule. pks holds P(k) at each grid
// point.
func variance(pks []float64, r float64, lnKs []float64) float64 {
	ys := make([]float64, len(lnKs))
	for i, lnK := range lnKs {
		k := math.Exp(lnK)
		w := TopHat(k * r)
		ys[i] = k * k * k * pks[i] * w * w
	}
	return calc.Trapz(lnKs, ys) / (2 * math.Pi * math.Pi)
}

// TopHat is the Fourier transform of a normalized spherical top-hat,
// W(x) = 3 (sin x - x cos x) / x^3.
func TopHat(x float64) float64 {
	if x < 1e-3 {
		return 1 - x*x/10
	}
	sin, cos := math.Sincos(x)
	return 3 * (sin - x*cos) / (x * x * x)
}

package cosmo

// RhoCritH2 is the z = 0 critical density in units of h^2 Msun / Mpc^3
// (equivalently, Msun/h / (Mpc/h)^3). This is the value the halo mass function
// calibration was done with.
const RhoCritH2 = 277536627245.708

// Params holds the background and linear-power parameters of a flat LCDM
// cosmology.
type Params struct {
	OmegaM, OmegaB float64
	H100           float64
	NS, Sigma8     float64
}

// Planck15 is the Planck 2015 cosmology (TT,TE,EE+lowP+lensing+ext).
var Planck15 = Params{
	OmegaM: 0.3089, OmegaB: 0.0486, H100: 0.6774, NS: 0.9667, Sigma8: 0.8159,
}

// OmegaL returns the dark energy density of the flat cosmology.
func (p Params) OmegaL() float64 { return 1 - p.OmegaM }

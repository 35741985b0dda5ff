package power

import (
	"math"

	"github.com/phil-mansfield/hmf/cosmo"
)

// TransferFunc returns the linear transfer function at wavenumber k (h/Mpc).
type TransferFunc func(k float64) float64

// BBKS returns the Bardeen, Bond, Kaiser & Szalay (1986) transfer function
// with the Sugiyama (1995) baryon-corrected shape parameter.
func BBKS(p cosmo.Params) TransferFunc {
	gamma := p.OmegaM * p.H100 *
		math.Exp(-p.OmegaB-math.Sqrt(2*p.H100)*p.OmegaB/p.OmegaM)
	return func(k float64) float64 {
		q := k / gamma
		if q < 1e-8 { return 1 }
		poly := 1 + 3.89*q + math.Pow(16.1*q, 2) + math.Pow(5.46*q, 3) +
			math.Pow(6.71*q, 4)
		return math.Log(1+2.34*q) / (2.34 * q) * math.Pow(poly, -0.25)
	}
}

// tCMB is the CMB temperature in units of 2.7 K.
const tCMB = 2.7255 / 2.7

// EisensteinHu returns the Eisenstein & Hu (1998) "no-wiggle" transfer
// function, which includes baryon suppression but not acoustic oscillations.
func EisensteinHu(p cosmo.Params) TransferFunc {
	h := p.H100
	omh2, obh2 := p.OmegaM*h*h, p.OmegaB*h*h
	fb := p.OmegaB / p.OmegaM

	// Sound horizon in Mpc.
	s := 44.5 * math.Log(9.83/omh2) / math.Sqrt(1+10*math.Pow(obh2, 0.75))
	alphaGamma := 1 - 0.328*math.Log(431*omh2)*fb +
		0.38*math.Log(22.3*omh2)*fb*fb

	return func(k float64) float64 {
		ks := k * h * s
		gammaEff := p.OmegaM * h *
			(alphaGamma + (1-alphaGamma)/(1+math.Pow(0.43*ks, 4)))
		q := k * tCMB * tCMB / gammaEff
		l0 := math.Log(2*math.E + 1.8*q)
		c0 := 14.2 + 731/(1+62.5*q)
		return l0 / (l0 + c0*q*q)
	}
}

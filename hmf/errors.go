package hmf

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when a Model can't be built from a Config.
	ErrConfiguration = errors.New("hmf: invalid configuration")
	// ErrVarianceComputation is returned when the variance source produces a
	// non-positive or non-finite sigma.
	ErrVarianceComputation = errors.New("hmf: variance computation failed")
	// ErrNumericalIntegration is returned when the barrier-crossing
	// normalization integral is non-positive or non-finite.
	ErrNumericalIntegration = errors.New("hmf: numerical integration failed")
	// ErrInvalidMass is returned when a mass sample contains a non-positive
	// or non-finite mass.
	ErrInvalidMass = errors.New("hmf: invalid halo mass")
)

// ConfigurationError describes a rejected Config field.
type ConfigurationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("hmf: config field %s = %v: %s",
		e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// VarianceComputationError records the sample that the variance source failed
// on. Err is set when the source itself returned an error, in which case
// Index is -1 if the failure can't be attributed to a single sample.
type VarianceComputationError struct {
	Index        int
	Mass, Radius float64
	Sigma        float64
	Err          error
}

func (e *VarianceComputationError) Error() string {
	if e.Err != nil && e.Index < 0 {
		return "hmf: variance source failed: " + e.Err.Error()
	} else if e.Err != nil {
		return fmt.Sprintf("hmf: variance source failed for M = %g "+
			"(R = %g): %s", e.Mass, e.Radius, e.Err.Error())
	}
	return fmt.Sprintf("hmf: variance source returned sigma = %g for "+
		"sample %d, M = %g (R = %g)", e.Sigma, e.Index, e.Mass, e.Radius)
}

func (e *VarianceComputationError) Unwrap() []error {
	if e.Err == nil { return []error{ErrVarianceComputation} }
	return []error{ErrVarianceComputation, e.Err}
}

// NumericalIntegrationError records the intermediate values of the
// normalization integral V(M) for the sample it failed on.
type NumericalIntegrationError struct {
	Index int
	Mass  float64
	// Cte is delta_c / (sqrt(2) sigma) and Concentration is c(M).
	Cte, Concentration float64
	V                  float64
}

func (e *NumericalIntegrationError) Error() string {
	return fmt.Sprintf("hmf: normalization integral V = %g for sample %d, "+
		"M = %g (cte = %g, c = %g)",
		e.V, e.Index, e.Mass, e.Cte, e.Concentration)
}

func (e *NumericalIntegrationError) Unwrap() error {
	return ErrNumericalIntegration
}

// MassError identifies an invalid entry in a mass sample.
type MassError struct {
	Index int
	Mass  float64
}

func (e *MassError) Error() string {
	return fmt.Sprintf("hmf: sample %d has mass %g, but masses must be "+
		"positive and finite", e.Index, e.Mass)
}

func (e *MassError) Unwrap() error { return ErrInvalidMass }

/*package cmd contains code for running hmf in its various command line
modes */
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/hmf/cosmo"
	"github.com/phil-mansfield/hmf/hmf"
	"github.com/phil-mansfield/hmf/logging"
	"github.com/phil-mansfield/hmf/power"
	"github.com/phil-mansfield/hmf/version"
)

// Mode represents the interface used by the main binary when interacting with
// a given command line mode.
type Mode interface {
	// ReadFlags parses the mode's command line flags.
	ReadFlags(flags []string) error
	// ReadsStdin returns true if the mode needs the contents of stdin, given
	// the flags it was passed.
	ReadsStdin() bool
	// Run executes the mode. It takes an initialized GlobalConfig struct and
	// a slice of lines representing the contents of stdin. It will return a
	// slice of lines that should be written to stdout along with an error if
	// one occurs.
	Run(gConfig *GlobalConfig, stdin []string) ([]string, error)
}

// GlobalConfig is a config file used by every mode. It contains the
// cosmology, the halo mass definition and the power spectrum.
type GlobalConfig struct {
	Version struct {
		Version string
	}
	Cosmology struct {
		OmegaM, OmegaB, H100, NS, Sigma8 float64
		Redshift                         float64
		MassDefinition                   string
	}
	PowerSpectrum struct {
		Model, Path string
	}
	Log struct {
		Mode string
	}

	logMode logging.Flag
}

// DefaultGlobalConfig returns the config used when no config file is given:
// Planck 2015 at z = 0 with m200b masses and a BBKS power spectrum.
func DefaultGlobalConfig() *GlobalConfig {
	config := &GlobalConfig{}
	config.Version.Version = version.SourceVersion
	config.Cosmology.OmegaM = cosmo.Planck15.OmegaM
	config.Cosmology.OmegaB = cosmo.Planck15.OmegaB
	config.Cosmology.H100 = cosmo.Planck15.H100
	config.Cosmology.NS = cosmo.Planck15.NS
	config.Cosmology.Sigma8 = cosmo.Planck15.Sigma8
	config.Cosmology.Redshift = hmf.DefaultRedshift
	config.Cosmology.MassDefinition = hmf.DefaultMassDefinition
	config.PowerSpectrum.Model = power.ModelBBKS
	config.Log.Mode = logging.Nil.String()
	return config
}

// ReadConfig reads a config file into config and validates it. Variables
// that aren't set in the file keep their current values.
func (config *GlobalConfig) ReadConfig(fname string) error {
	if err := gcfg.ReadFileInto(config, fname); err != nil {
		return fmt.Errorf("I couldn't parse the config file %s: %s",
			fname, err.Error())
	}
	return config.Validate()
}

// readString is ReadConfig for a config which is already in memory.
func (config *GlobalConfig) readString(text string) error {
	if err := gcfg.ReadStringInto(config, text); err != nil {
		return fmt.Errorf("I couldn't parse the config file: %s", err.Error())
	}
	return config.Validate()
}

// Validate checks that all the user-generated fields of GlobalConfig are
// properly set. It must be called before LogMode if the config was never
// read from a file.
func (config *GlobalConfig) Validate() error {
	if err := version.CheckConfig(config.Version.Version); err != nil {
		return fmt.Errorf("The 'Version' variable is invalid: %s", err.Error())
	}

	c := &config.Cosmology
	switch {
	case !(c.OmegaM > 0 && c.OmegaM < 1):
		return fmt.Errorf("The 'OmegaM' variable is set to %g, but it must "+
			"be between 0 and 1.", c.OmegaM)
	case !(c.OmegaB >= 0 && c.OmegaB < c.OmegaM):
		return fmt.Errorf("The 'OmegaB' variable is set to %g, but it must "+
			"be non-negative and smaller than OmegaM.", c.OmegaB)
	case !(c.H100 > 0):
		return fmt.Errorf("The 'H100' variable is set to %g, but it must be "+
			"positive.", c.H100)
	case !(c.Sigma8 > 0):
		return fmt.Errorf("The 'Sigma8' variable is set to %g, but it must "+
			"be positive.", c.Sigma8)
	case !(c.Redshift >= 0):
		return fmt.Errorf("The 'Redshift' variable is set to %g, but it must "+
			"be non-negative.", c.Redshift)
	}

	if _, err := hmf.LookupMassDefinition(c.MassDefinition); err != nil {
		return fmt.Errorf("The 'MassDefinition' variable is set to '%s', "+
			"which I don't recognize. Supported values are %v.",
			c.MassDefinition, hmf.MassDefinitionNames())
	}

	ps := &config.PowerSpectrum
	switch ps.Model {
	case power.ModelBBKS, power.ModelEH98:
	case power.ModelTable, power.ModelUchuuTable:
		if ps.Path == "" {
			return fmt.Errorf("The 'Model' variable is set to '%s', but "+
				"'Path' isn't set.", ps.Model)
		} else if err := validateFile(ps.Path); err != nil {
			return fmt.Errorf("The 'Path' variable is set to '%s', but %s",
				ps.Path, err.Error())
		}
	case "":
		return fmt.Errorf("The 'Model' variable isn't set.")
	default:
		return fmt.Errorf("The 'Model' variable is set to '%s', which I "+
			"don't recognize. Supported values are %v.", ps.Model, power.Models)
	}

	flag, err := logging.ParseFlag(config.Log.Mode)
	if err != nil {
		return fmt.Errorf("The 'Mode' variable is invalid: %s", err.Error())
	}
	config.logMode = flag

	return nil
}

// validateFile returns an error if there are any problems with the given
// file.
func validateFile(name string) error {
	if info, err := os.Stat(name); err != nil {
		return fmt.Errorf("%s does not exist.", name)
	} else if info.IsDir() {
		return fmt.Errorf("%s is a directory.", name)
	}
	return nil
}

// LogMode returns the logging mode set by the config file.
func (config *GlobalConfig) LogMode() logging.Flag { return config.logMode }

// Params returns the cosmological parameters of the config file.
func (config *GlobalConfig) Params() cosmo.Params {
	c := &config.Cosmology
	return cosmo.Params{
		OmegaM: c.OmegaM, OmegaB: c.OmegaB, H100: c.H100,
		NS: c.NS, Sigma8: c.Sigma8,
	}
}

// Model constructs the halo mass function model described by the config
// file.
func (config *GlobalConfig) Model() (*hmf.Model, error) {
	src := power.NewSource(config.Params(), slog.Default())
	return hmf.New(hmf.Config{
		OmegaM:         config.Cosmology.OmegaM,
		Redshift:       config.Cosmology.Redshift,
		MassDefinition: config.Cosmology.MassDefinition,
		PowerSpectrum: hmf.PowerSpectrum{
			Model: config.PowerSpectrum.Model,
			Path:  config.PowerSpectrum.Path,
		},
	}, src, hmf.WithLogger(slog.Default()))
}

// ExampleConfig returns an example configuration file.
func (config *GlobalConfig) ExampleConfig() string {
	p := cosmo.Planck15
	return fmt.Sprintf(`# Target version of hmf. This option merely allows hmf to notice when its
# source and configuration files are not from the same version.
[Version]
Version = %s

# Flat LCDM cosmology. The defaults are Planck 2015. Only OmegaM enters the
# mass function directly; the other parameters set the shape and amplitude of
# the analytic power spectra.
[Cosmology]
OmegaM = %g
OmegaB = %g
H100 = %g
NS = %g
Sigma8 = %g
Redshift = 0

# Supported MassDefinitions: m200b
MassDefinition = m200b

# Model is the linear power spectrum that sigma(M) is computed from.
# Supported Models:
# bbks        - Bardeen et al. (1986) transfer function, normalized to Sigma8.
# eh98        - Eisenstein & Hu (1998) transfer function without wiggles,
#               normalized to Sigma8.
# table       - A z = 0 table with two columns, log10(k [h/Mpc]) and
#               log10(P [(Mpc/h)^3]), read from Path.
# uchuu_table - Same as table.
[PowerSpectrum]
Model = bbks
# Path = path/to/power_uchuu_log10.dat

# Mode controls logging to stderr: nil, performance or debug.
[Log]
Mode = nil`, version.SourceVersion, p.OmegaM, p.OmegaB, p.H100, p.NS, p.Sigma8)
}

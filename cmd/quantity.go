package cmd

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/phil-mansfield/hmf/hmf"
	"github.com/phil-mansfield/hmf/logging"
	"github.com/phil-mansfield/hmf/math/calc"
)

// QuantityMode is a mode which evaluates one mass-dependent quantity of the
// model for a sequence of masses. Masses are read one per line from stdin
// unless the -n flag asks for a log-spaced grid.
type QuantityMode struct {
	Name, Column, Description string
	eval func(m *hmf.Model, ms []float64) ([]float64, error)

	min, max float64
	n        int
}

var _ Mode = &QuantityMode{}

func newQuantityMode(
	name, column, desc string,
	eval func(m *hmf.Model, ms []float64) ([]float64, error),
) *QuantityMode {
	return &QuantityMode{
		Name: name, Column: column, Description: desc, eval: eval,
	}
}

// ModeNames maps the names of every mode onto the mode.
var ModeNames = map[string]Mode{
	"sigma": newQuantityMode("sigma", "sigma",
		"Non-linearly corrected rms density fluctuation sigma(M).",
		(*hmf.Model).Sigma),
	"F": newQuantityMode("F", "F",
		"Multiplicity function F(M).",
		(*hmf.Model).F),
	"n0": newQuantityMode("n0", "dn/dlnM [h^3/Mpc^3]",
		"Differential mass function dn/dlnM.",
		(*hmf.Model).N0),
	"bias": newQuantityMode("bias", "b",
		"Calibrated bias relation b(M).",
		(*hmf.Model).Bias),
	"conc": newQuantityMode("conc", "c",
		"Calibrated concentration relation c(M).",
		(*hmf.Model).Concentration),
}

// ReadFlags parses -min, -max and -n.
func (mode *QuantityMode) ReadFlags(flags []string) error {
	fs := flag.NewFlagSet(mode.Name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Float64Var(&mode.min, "min", 1e10, "smallest mass of the grid [Msun/h]")
	fs.Float64Var(&mode.max, "max", 1e15, "largest mass of the grid [Msun/h]")
	fs.IntVar(&mode.n, "n", 0, "number of grid points; 0 reads stdin")

	if err := fs.Parse(flags); err != nil {
		return fmt.Errorf("I couldn't parse the flags of the %s mode: %s",
			mode.Name, err.Error())
	} else if fs.NArg() > 0 {
		return fmt.Errorf("I don't recognize the argument '%s'.", fs.Arg(0))
	}

	switch {
	case mode.n < 0:
		return fmt.Errorf("-n is set to %d, but must be non-negative.", mode.n)
	case mode.n == 1 && mode.min != mode.max:
		return fmt.Errorf("-n is set to 1, but -min and -max differ.")
	case mode.n > 0 && !(mode.min > 0 && mode.max >= mode.min):
		return fmt.Errorf("-min and -max are set to %g and %g, but must "+
			"satisfy 0 < min <= max.", mode.min, mode.max)
	}
	return nil
}

// ReadsStdin returns true if masses are read from stdin.
func (mode *QuantityMode) ReadsStdin() bool { return mode.n == 0 }

// Usage returns a help string for the mode.
func (mode *QuantityMode) Usage() string {
	return fmt.Sprintf(`%s

hmf %s [-min M] [-max M] [-n N] [____.config]

Masses in Msun/h are read one per line from stdin, or, if -n is given, N
log-spaced masses from -min (default 1e10) to -max (default 1e15) are used.
Each output line contains a mass and the value of %s at that mass.`,
		mode.Description, mode.Name, mode.Column)
}

// Run evaluates the mode's quantity.
func (mode *QuantityMode) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	if logging.Mode != logging.Nil {
		slog.Info("Running mode", "mode", mode.Name)
	}
	var t time.Time
	if logging.Mode == logging.Performance { t = time.Now() }

	var ms []float64
	if mode.n > 0 {
		ms = massGrid(mode.min, mode.max, mode.n)
	} else {
		var err error
		if ms, err = parseMasses(stdin); err != nil { return nil, err }
	}

	model, err := gConfig.Model()
	if err != nil { return nil, err }
	vals, err := mode.eval(model, ms)
	if err != nil { return nil, err }

	lines := make([]string, 0, len(ms)+1)
	lines = append(lines, fmt.Sprintf("# %-12s %s", "M [Msun/h]", mode.Column))
	for i := range ms {
		lines = append(lines, fmt.Sprintf("%-14.6g %.6g", ms[i], vals[i]))
	}

	if logging.Mode == logging.Performance {
		slog.Info("Finished mode", "mode", mode.Name,
			"time", time.Since(t).String(), "memory", logging.MemString())
	}
	return lines, nil
}

func massGrid(min, max float64, n int) []float64 {
	if n == 1 { return []float64{min} }
	return calc.LogSpace(min, max, n)
}

// parseMasses reads one mass from the first column of every line. Blank lines
// and lines starting with '#' are skipped.
func parseMasses(lines []string) ([]float64, error) {
	ms := []float64{}
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' { continue }
		tok := strings.Fields(line)[0]
		m, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("Line %d of stdin, '%s', does not start "+
				"with a mass.", i+1, line)
		}
		ms = append(ms, m)
	}
	return ms, nil
}

package power

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/phil-mansfield/hmf/math/interpolate"
)

// minTableRows is the smallest table a spline can be usefully fit through.
const minTableRows = 4

// Table is a tabulated linear power spectrum at z = 0, stored as log10(k) and
// log10(P(k)) with k in h/Mpc and P in (Mpc/h)^3.
type Table struct {
	LogK, LogP []float64
	sp         *interpolate.Spline
}

// NewTable creates a Table from log10(k), log10(P) columns. logK must be
// strictly increasing.
func NewTable(logK, logP []float64) (*Table, error) {
	if len(logK) != len(logP) {
		return nil, fmt.Errorf("power table has %d k values but %d P values",
			len(logK), len(logP))
	} else if len(logK) < minTableRows {
		return nil, fmt.Errorf("power table has %d rows, but at least %d "+
			"are needed", len(logK), minTableRows)
	}

	for i := range logK {
		if math.IsNaN(logK[i]) || math.IsInf(logK[i], 0) ||
			math.IsNaN(logP[i]) || math.IsInf(logP[i], 0) {
			return nil, fmt.Errorf("power table row %d, (%g, %g), is not "+
				"finite", i, logK[i], logP[i])
		}
		if i > 0 && logK[i] <= logK[i-1] {
			return nil, fmt.Errorf("power table k values are not strictly "+
				"increasing at row %d (%g after %g)", i, logK[i], logK[i-1])
		}
	}

	return &Table{
		LogK: logK, LogP: logP, sp: interpolate.NewSpline(logK, logP),
	}, nil
}

// ReadTable reads a power spectrum table file: two whitespace-separated
// columns, log10(k) and log10(P), one pair per line. Blank lines and lines
// starting with '#' are skipped and any columns past the second are ignored.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil { return nil, fmt.Errorf("reading power table: %w", err) }
	defer f.Close()

	logK, logP := []float64{}, []float64{}
	scanner := bufio.NewScanner(f)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' { continue }

		toks := strings.Fields(line)
		if len(toks) < 2 {
			return nil, fmt.Errorf("line %d of power table %s has %d "+
				"column(s), but 2 are needed", lineNum, path, len(toks))
		}
		k, err := strconv.ParseFloat(toks[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d of power table %s: %w",
				lineNum, path, err)
		}
		p, err := strconv.ParseFloat(toks[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d of power table %s: %w",
				lineNum, path, err)
		}
		logK, logP = append(logK, k), append(logP, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading power table %s: %w", path, err)
	}

	t, err := NewTable(logK, logP)
	if err != nil { return nil, fmt.Errorf("%s: %w", path, err) }
	return t, nil
}

// KRange returns the smallest and largest tabulated k.
func (t *Table) KRange() (kMin, kMax float64) {
	return math.Pow(10, t.LogK[0]), math.Pow(10, t.LogK[len(t.LogK)-1])
}

// P returns the spline-interpolated power at k. k is clamped to KRange().
func (t *Table) P(k float64) float64 {
	return t.PAll([]float64{k})[0]
}

// PAll returns the spline-interpolated power at every k in ks. Each k is
// clamped to KRange().
func (t *Table) PAll(ks []float64) []float64 {
	lo, hi := t.sp.Range()
	ps := make([]float64, len(ks))
	for i, k := range ks {
		ps[i] = math.Max(lo, math.Min(hi, math.Log10(k)))
	}
	t.sp.EvalAll(ps, ps)
	for i := range ps { ps[i] = math.Pow(10, ps[i]) }
	return ps
}

package hmf

import (
	"sort"
	"strings"
)

// MassDefinition is a halo mass definition together with the exponents the
// collapse barrier was calibrated with for it.
type MassDefinition struct {
	Name          string
	A, B, D, E, F float64
}

// M200b is the mass enclosed within the radius where the mean density is 200
// times the mean matter density.
var M200b = MassDefinition{
	Name: "m200b", A: 1.089, B: 0.652, D: 1.0, E: 0.17, F: 0.087,
}

var massDefinitions = map[string]MassDefinition{
	M200b.Name: M200b,
}

// LookupMassDefinition returns the calibrated mass definition with the given
// tag.
func LookupMassDefinition(name string) (MassDefinition, error) {
	mdef, ok := massDefinitions[name]
	if !ok {
		return MassDefinition{}, &ConfigurationError{
			Field: "MassDefinition", Value: name,
			Reason: "unrecognized mass definition, supported definitions " +
				"are " + joinNames(MassDefinitionNames()),
		}
	}
	return mdef, nil
}

// MassDefinitionNames returns the tags of every supported mass definition.
func MassDefinitionNames() []string {
	names := make([]string, 0, len(massDefinitions))
	for name := range massDefinitions { names = append(names, name) }
	sort.Strings(names)
	return names
}

func joinNames(names []string) string {
	quoted := make([]string, len(names))
	for i := range names { quoted[i] = "'" + names[i] + "'" }
	return strings.Join(quoted, ", ")
}

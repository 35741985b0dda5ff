/*package version controls the version*/
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceVersion is the version string representing the semantic version number
// of the source code.
const SourceVersion = "0.1.0"

// Version is a parsed semantic version number.
type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Parse parses a semantic version number string and returns an error if
// the string is invalid.
func Parse(s string) (Version, error) {
	toks := strings.Split(strings.TrimSpace(s), ".")
	if len(toks) != 3 {
		return Version{}, fmt.Errorf("version string '%s' does not take the "+
			"form of three period-separated non-negative numbers", s)
	}

	var nums [3]int
	for i := range toks {
		n, err := strconv.Atoi(toks[i])
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("version string '%s' does not take "+
				"the form of three period-separated non-negative numbers", s)
		}
		nums[i] = n
	}
	return Version{nums[0], nums[1], nums[2]}, nil
}

// After returns true if v is a later version than u.
func (v Version) After(u Version) bool {
	if v.Major != u.Major { return v.Major > u.Major }
	if v.Minor != u.Minor { return v.Minor > u.Minor }
	return v.Patch > u.Patch
}

// CheckConfig returns an error if a config file written for version s can't
// be read by this source: s must be valid, must share the source's major
// version, and must not be later than the source.
func CheckConfig(s string) error {
	v, err := Parse(s)
	if err != nil { return err }
	src, _ := Parse(SourceVersion)

	if v.Major != src.Major {
		return fmt.Errorf("the config file targets version %s, but the "+
			"source is version %s, which has a different major version",
			v, src)
	} else if v.After(src) {
		return fmt.Errorf("the config file targets version %s, which is "+
			"later than the source version, %s", v, src)
	}
	return nil
}

// Package semver parses and compares the loosely semantic version
// strings shimexe encounters in release tags and version-check
// responses: major[.minor[.patch]][-qualifier], with an optional
// leading "v".
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed major.minor.patch[-qualifier] version.
type Version struct {
	Major     int
	Minor     int
	Patch     int
	Qualifier string
	Original  string
}

// Parse parses a version string. A leading "v" or "V" is stripped before
// parsing, so "v1.2.3" and "1.2.3" are equivalent.
func Parse(v string) (*Version, error) {
	if v == "" {
		return nil, fmt.Errorf("empty version string")
	}

	original := v
	trimmed := strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")

	version := &Version{Original: original}

	parts := strings.SplitN(trimmed, "-", 2)
	numericPart := parts[0]
	if len(parts) > 1 {
		version.Qualifier = parts[1]
	}

	numbers := strings.Split(numericPart, ".")
	if len(numbers) == 0 || len(numbers) > 3 {
		return nil, fmt.Errorf("invalid version format: %s", v)
	}

	major, err := strconv.Atoi(numbers[0])
	if err != nil {
		return nil, fmt.Errorf("invalid major version: %s", numbers[0])
	}
	version.Major = major

	if len(numbers) > 1 {
		minor, err := strconv.Atoi(numbers[1])
		if err != nil {
			return nil, fmt.Errorf("invalid minor version: %s", numbers[1])
		}
		version.Minor = minor
	}

	if len(numbers) > 2 {
		patch, err := strconv.Atoi(numbers[2])
		if err != nil {
			return nil, fmt.Errorf("invalid patch version: %s", numbers[2])
		}
		version.Patch = patch
	}

	return version, nil
}

// String returns the original, unnormalized version string.
func (v *Version) String() string {
	return v.Original
}

// Compare returns -1, 0 or 1 as v is less than, equal to, or greater
// than other.
func (v *Version) Compare(other *Version) int {
	if v.Major != other.Major {
		return compareInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return compareInt(v.Minor, other.Minor)
	}
	if v.Patch != other.Patch {
		return compareInt(v.Patch, other.Patch)
	}
	return compareQualifier(v.Qualifier, other.Qualifier)
}

// GreaterThan reports whether v is strictly newer than other.
func (v *Version) GreaterThan(other *Version) bool {
	return v.Compare(other) > 0
}

func compareInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// compareQualifier treats the absence of a qualifier as the highest
// rank ("1.0.0" is newer than "1.0.0-rc1"), otherwise compares
// lexicographically.
func compareQualifier(q1, q2 string) int {
	if q1 == "" && q2 == "" {
		return 0
	}
	if q1 == "" {
		return 1
	}
	if q2 == "" {
		return -1
	}
	if q1 < q2 {
		return -1
	}
	if q1 > q2 {
		return 1
	}
	return 0
}

// Compare parses both strings and compares them, returning an error if
// either fails to parse.
func Compare(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

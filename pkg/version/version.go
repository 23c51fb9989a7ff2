/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package version provides lenient numeric version parsing used to order
// versioned toolchain names. Toolchain channels come in several shapes:
// plain releases ("1.72.0"), short releases ("1.72"), and dated or named
// channels ("nightly-2026-01-15", "stable") that do not parse at all.
// Callers fall back to lexical ordering for the latter.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse failure modes.
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
)

// Version is a numeric version with 1 to 3 significant components.
// Precision records how many components were present in the input, so
// "1.72" and "1.72.0" compare equal but render differently.
type Version struct {
	Major     int
	Minor     int
	Patch     int
	Precision int
}

// Parse parses a version string such as "1", "1.72", or "1.72.0".
// A leading "v" is tolerated. Anything else is an error; callers are
// expected to treat unparseable toolchain names as opaque strings.
func Parse(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrTooManyComponents, s)
	}

	var v Version
	dst := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, p)
		}
		*dst[i] = n
	}
	v.Precision = len(parts)
	return v, nil
}

// String renders the version respecting its precision.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// Compare returns -1, 0, or 1 ordering v against o numerically.
// Missing components compare as zero, so 1.72 == 1.72.0.
func (v Version) Compare(o Version) int {
	pairs := [][2]int{
		{v.Major, o.Major},
		{v.Minor, o.Minor},
		{v.Patch, o.Patch},
	}
	for _, p := range pairs {
		if p[0] != p[1] {
			if p[0] < p[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// CompareNames orders two toolchain names: numerically when both parse as
// versions, otherwise lexically. Parseable versions sort before opaque
// channel names so that release toolchains group together.
func CompareNames(a, b string) int {
	va, errA := Parse(a)
	vb, errB := Parse(b)
	switch {
	case errA == nil && errB == nil:
		if c := va.Compare(vb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

package status

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	// maxVersionLength bounds the input accepted as a version string.
	maxVersionLength = 256

	// maxComponent is the largest MAJOR, MINOR or PATCH accepted, the
	// largest integer a JavaScript number holds exactly.
	maxComponent = 1<<53 - 1
)

// parse accepts a strict semantic version with an optional leading "v"
// and surrounding whitespace. Build metadata is allowed.
func parse(v string) (*semver.Version, bool) {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > maxVersionLength {
		return nil, false
	}
	sv, err := semver.StrictNewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return nil, false
	}
	if sv.Major() > maxComponent || sv.Minor() > maxComponent || sv.Patch() > maxComponent {
		return nil, false
	}
	return sv, true
}

// Valid reports whether v is a semantic version, tolerating a leading "v"
// and build metadata.
func Valid(v string) bool {
	_, ok := parse(v)
	return ok
}

// Clean normalizes v to MAJOR.MINOR.PATCH[-prerelease]. Leading "v" and "="
// characters are stripped and build metadata is dropped. It returns ""
// when v is not a semantic version.
func Clean(v string) string {
	v = strings.TrimLeft(strings.TrimSpace(v), "=v")
	sv, ok := parse(v)
	if !ok {
		return ""
	}
	return canonical(sv)
}

func canonical(v *semver.Version) string {
	s := fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
	if pre := v.Prerelease(); pre != "" {
		s += "-" + pre
	}
	return s
}

func compareMain(a, b *semver.Version) int {
	switch {
	case a.Major() != b.Major():
		return cmpUint(a.Major(), b.Major())
	case a.Minor() != b.Minor():
		return cmpUint(a.Minor(), b.Minor())
	default:
		return cmpUint(a.Patch(), b.Patch())
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// diff returns the most significant difference between a and b, or ""
// when they have equal precedence. The "pre" prefix is added when the
// higher of the two versions is a prerelease. A prerelease promoted to its
// own release reports the component the release bumps.
func diff(a, b *semver.Version) Status {
	cmp := a.Compare(b)
	if cmp == 0 {
		return ""
	}
	high, low := b, a
	if cmp > 0 {
		high, low = a, b
	}
	highPre := high.Prerelease() != ""
	lowPre := low.Prerelease() != ""

	if lowPre && !highPre {
		if low.Patch() == 0 && low.Minor() == 0 {
			return StatusMajor
		}
		if compareMain(low, high) == 0 {
			if low.Minor() != 0 && low.Patch() == 0 {
				return StatusMinor
			}
			return StatusPatch
		}
	}

	var prefix Status
	if highPre {
		prefix = "pre"
	}
	switch {
	case a.Major() != b.Major():
		return prefix + StatusMajor
	case a.Minor() != b.Minor():
		return prefix + StatusMinor
	case a.Patch() != b.Patch():
		return prefix + StatusPatch
	default:
		return StatusPrerelease
	}
}

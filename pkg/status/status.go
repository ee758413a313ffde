package status

// Status is the update classification of a package.
type Status string

// Difference kinds, ordered from most to least urgent.
const (
	StatusMajor      Status = "major"
	StatusPremajor   Status = "premajor"
	StatusMinor      Status = "minor"
	StatusPreminor   Status = "preminor"
	StatusPatch      Status = "patch"
	StatusPrepatch   Status = "prepatch"
	StatusPrerelease Status = "prerelease"
)

const (
	// StatusUpdated means the package is built against the latest upstream release.
	StatusUpdated Status = "updated"

	// StatusIndeterminate means the status could not be computed; see Row.StatusError.
	// It keeps the "NA" wire value of the dashboard payload.
	StatusIndeterminate Status = "NA"

	// StatusPending marks a row whose upstream query has not resolved yet.
	StatusPending Status = "pending"
)

// unknownRank places unexpected statuses after every known one.
const unknownRank = 11

var ranks = map[Status]int{
	StatusMajor:         1,
	StatusPremajor:      2,
	StatusMinor:         3,
	StatusPreminor:      4,
	StatusPatch:         5,
	StatusPrepatch:      6,
	StatusPrerelease:    7,
	StatusUpdated:       8,
	StatusIndeterminate: 9,
	StatusPending:       10,
}

// Rank returns the display priority of s. Lower ranks sort first.
func (s Status) Rank() int {
	if r, ok := ranks[s]; ok {
		return r
	}
	return unknownRank
}

// Known reports whether s is one of the defined statuses.
func (s Status) Known() bool {
	_, ok := ranks[s]
	return ok
}

// Outdated reports whether s is one of the difference kinds.
func (s Status) Outdated() bool {
	r, ok := ranks[s]
	return ok && r < ranks[StatusUpdated]
}

// String implements fmt.Stringer.
func (s Status) String() string { return string(s) }

// Color returns the dashboard background color for s.
func Color(s Status) string {
	switch s {
	case StatusUpdated:
		return "lightgreen"
	case StatusPatch:
		return "lightyellow"
	case StatusMinor:
		return "lightsalmon"
	case StatusMajor:
		return "lightcoral"
	case StatusPrerelease, StatusPremajor, StatusPreminor, StatusPrepatch:
		return "lightblue"
	default:
		return "lightgray"
	}
}

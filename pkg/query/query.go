// Package query builds the batched GitHub GraphQL query that fetches the
// latest release of every upstream repository in one request.
//
// Each package contributes one aliased fragment. Fragments are produced
// independently and folded with [Build] once all packages are known:
//
//	frag, err := query.Fragment("geth.dnp.dappnode.eth", status.RegistryDNP, "ethereum/go-ethereum")
//	q := query.Build([]string{frag})
//
// The alias of each fragment is [status.FieldName], which is how results
// are matched back to packages.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dappnode/packages-status/pkg/errors"
	"github.com/dappnode/packages-status/pkg/status"
)

// ParseUpstreamRepo splits an "owner/name" upstream repository reference.
func ParseUpstreamRepo(s string) (owner, name string, err error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.New(errors.ErrCodeInvalidUpstreamRepo, "invalid upstream repo %q", s)
	}
	return parts[0], parts[1], nil
}

// Fragment returns the aliased repository selection for one package.
// upstreamRepo must be an "owner/name" reference.
func Fragment(pkgName string, registry status.Registry, upstreamRepo string) (string, error) {
	owner, name, err := ParseUpstreamRepo(upstreamRepo)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
%s: repository(owner: %s, name: %s) {
  latestRelease {
    tagName
  }
}
`, status.FieldName(pkgName, registry), strconv.Quote(owner), strconv.Quote(name)), nil
}

// Build folds fragments into a single query document. A fragment whose
// alias was already seen is skipped, since GraphQL rejects conflicting
// aliases.
func Build(fragments []string) string {
	var b strings.Builder
	seen := make(map[string]bool, len(fragments))
	b.WriteString("{")
	for _, f := range fragments {
		alias := Alias(f)
		if alias == "" || seen[alias] {
			continue
		}
		seen[alias] = true
		b.WriteString(f)
	}
	b.WriteString("}")
	return b.String()
}

// Alias returns the alias a fragment selects under, or "" if f is not a
// fragment.
func Alias(f string) string {
	alias, _, ok := strings.Cut(strings.TrimSpace(f), ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(alias)
}

// Empty reports whether q selects nothing.
func Empty(q string) bool {
	return strings.Trim(strings.TrimSpace(q), "{} \n\t") == ""
}

package status

import (
	"sort"
	"strings"
)

var dashReplacer = strings.NewReplacer("-", "_")

// FieldName returns the GraphQL alias used for a package in the batched
// upstream query: "r" + registry + short name, where the short name is the
// package name up to its first "." and dashes become underscores.
//
//	FieldName("geth.dnp.dappnode.eth", RegistryDNP)          // "rdnpgeth"
//	FieldName("mev-boost.dnp.dappnode.eth", RegistryDNP)     // "rdnpmev_boost"
//
// Two packages with the same short name in the same registry share an
// alias; see DetectCollisions.
func FieldName(name string, registry Registry) string {
	short, _, _ := strings.Cut(name, ".")
	return "r" + dashReplacer.Replace(string(registry)) + dashReplacer.Replace(short)
}

// DetectCollisions returns, for every alias shared by more than one row,
// the keys of the rows that share it. The result is empty when every row
// maps to a distinct alias.
func DetectCollisions(rows []Row) map[string][]string {
	byField := make(map[string][]string, len(rows))
	for _, r := range rows {
		f := FieldName(r.Name, r.Registry)
		byField[f] = append(byField[f], r.Key())
	}
	out := make(map[string][]string)
	for f, keys := range byField {
		if len(keys) > 1 {
			sort.Strings(keys)
			out[f] = keys
		}
	}
	return out
}

// Package status resolves how far each package lags behind its upstream
// release.
//
// # Overview
//
// A refresh cycle produces one [Row] per package. Every row starts out as
// [StatusPending]. Once the batched GitHub query returns, [ResolveAll]
// looks up each row's entry in the [BatchResult], classifies it with
// [Classify], and orders the rows with [Order] so the most urgent updates
// come first:
//
//	rows := []status.Row{
//	    {Name: "geth.dnp.dappnode.eth", Registry: status.RegistryDNP, DeclaredUpstream: "1.10.0"},
//	}
//	result := status.BatchResult{
//	    "rdnpgeth": {LatestRelease: &status.Release{TagName: "v1.11.0"}},
//	}
//	resolved := status.ResolveAll(rows, result)
//	// resolved[0].Status == status.StatusMinor
//
// # Field names
//
// GraphQL aliases cannot contain dashes or dots, so every package maps to
// an alias with [FieldName]. The same function is used when the query is
// built and when the result is read back; there is no reverse mapping.
//
// # Errors
//
// Nothing in this package returns an error once a row exists. Missing or
// malformed data yields [StatusIndeterminate] with a message in
// [Row.StatusError], one distinct message per failure cause.
package status

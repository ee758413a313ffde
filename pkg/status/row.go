package status

import (
	"fmt"
	"strings"
)

// Registry is the DAppNode registry namespace a package is published under.
type Registry string

const (
	RegistryDNP    Registry = "dnp"
	RegistryPublic Registry = "public"
)

// RegistryOf infers the registry from a full package name such as
// "geth.dnp.dappnode.eth".
func RegistryOf(name string) (Registry, error) {
	switch {
	case strings.Contains(name, string(RegistryDNP)):
		return RegistryDNP, nil
	case strings.Contains(name, string(RegistryPublic)):
		return RegistryPublic, nil
	default:
		return "", fmt.Errorf("unknown registry for repo %s", name)
	}
}

// Row is one package in the dashboard, before and after resolution.
// Only Status, StatusError and UpstreamVersion are written by ResolveAll;
// every other field passes through unchanged.
type Row struct {
	Name             string   `json:"name"`
	Registry         Registry `json:"registry"`
	Version          string   `json:"pkgVersion"`
	ContentURI       string   `json:"contentUri"`
	Status           Status   `json:"updateStatus"`
	StatusError      string   `json:"updateStatusError,omitempty"`
	DeclaredUpstream string   `json:"pkgUpstreamVersion"`
	UpstreamVersion  string   `json:"upstreamVersion"`
	RepoURL          string   `json:"repoUrl"`
	UpstreamRepo     string   `json:"upstreamRepoUrl"`
}

// Key identifies a row within a refresh cycle.
func (r Row) Key() string { return string(r.Registry) + "/" + r.Name }

package collect

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dappnode/packages-status/pkg/errors"
)

// manifestPattern matches the manifest file of a release directory.
var manifestPattern = regexp.MustCompile(`dappnode_package.*\.(json|ya?ml)$`)

// Manifest holds the package manifest fields the dashboard reads.
type Manifest struct {
	Name            string     `yaml:"name"`
	Version         string     `yaml:"version"`
	UpstreamVersion string     `yaml:"upstreamVersion"`
	UpstreamRepo    string     `yaml:"upstreamRepo"`
	Repository      Repository `yaml:"repository"`
	Upstream        []Upstream `yaml:"upstream"`
}

// Repository is the package's own source repository.
type Repository struct {
	Type string `yaml:"type"`
	URL  string `yaml:"url"`
}

// Upstream is one entry of the multi-upstream manifest format.
type Upstream struct {
	Repo    string `yaml:"repo"`
	Version string `yaml:"version"`
	Arg     string `yaml:"arg"`
}

// ParseManifest decodes a JSON or YAML manifest. JSON is a subset of YAML
// so one decoder handles both.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	return &m, nil
}

// DeclaredUpstream returns the declared upstream repository and version. The
// legacy top-level fields win; the first entry of the upstream list is the
// fallback.
func (m *Manifest) DeclaredUpstream() (repo, version string) {
	repo = strings.TrimSpace(m.UpstreamRepo)
	version = strings.TrimSpace(m.UpstreamVersion)
	if len(m.Upstream) > 0 {
		if repo == "" {
			repo = strings.TrimSpace(m.Upstream[0].Repo)
		}
		if version == "" {
			version = strings.TrimSpace(m.Upstream[0].Version)
		}
	}
	return repo, version
}

// IsManifest reports whether a release file name is a manifest.
func IsManifest(name string) bool {
	return manifestPattern.MatchString(name)
}

package github

import (
	"regexp"
	"strings"

	perrors "github.com/dappnode/packages-status/pkg/errors"
)

var (
	// GitHub users and orgs: 1-39 alphanumerics or hyphens, no leading hyphen.
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumerics, hyphens, underscores or dots.
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if !validOwner.MatchString(owner) {
		return perrors.New(perrors.ErrCodeInvalidUpstreamRepo, "invalid owner %q", owner)
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if !validRepo.MatchString(repo) {
		return perrors.New(perrors.ErrCodeInvalidUpstreamRepo, "invalid repo name %q", repo)
	}
	return nil
}

// ParseRepoRef parses an "owner/repo" reference and validates both parts
// against GitHub's naming rules.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(ref), "/")
	if len(parts) != 2 {
		return "", "", perrors.New(perrors.ErrCodeInvalidUpstreamRepo, "invalid upstream repo %q: use owner/repo", ref)
	}
	if err := ValidateOwner(parts[0]); err != nil {
		return "", "", err
	}
	if err := ValidateRepo(parts[1]); err != nil {
		return "", "", err
	}
	return parts[0], parts[1], nil
}

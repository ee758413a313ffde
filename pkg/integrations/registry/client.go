// Package registry resolves the latest published release of a DAppNode
// package.
//
// The registry is read through an HTTP index that answers
// GET {base}/{name} with the latest version and its content URI:
//
//	{"version": "0.1.45", "contentUri": "/ipfs/QmRelease"}
//
// Answers are cached for a short TTL so that back-to-back refreshes do not
// repeat the lookups while new publications still show up quickly.
package registry

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dappnode/packages-status/pkg/cache"
	"github.com/dappnode/packages-status/pkg/errors"
	"github.com/dappnode/packages-status/pkg/integrations"
)

// DefaultTTL is the cache lifetime of a lookup.
const DefaultTTL = 5 * time.Minute

// Release is the latest published release of a package.
type Release struct {
	Version    string `json:"version"`
	ContentURI string `json:"contentUri"`
}

// Client queries the registry index.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client for the index at baseURL. A ttl <= 0 uses
// DefaultTTL.
func NewClient(c cache.Cache, baseURL string, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		Client:  integrations.NewClient(c, "registry", ttl, nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Latest returns the latest release of name.
func (c *Client) Latest(ctx context.Context, name string) (*Release, error) {
	if err := errors.ValidatePackageName(name); err != nil {
		return nil, err
	}
	if c.baseURL == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "registry url not configured")
	}

	var rel Release
	err := c.Cached(ctx, name, false, &rel, func() error {
		return c.Get(ctx, c.baseURL+"/"+url.PathEscape(name), &rel)
	})
	if err != nil {
		return nil, fmt.Errorf("registry lookup %s: %w", name, err)
	}
	if rel.Version == "" || rel.ContentURI == "" {
		return nil, errors.New(errors.ErrCodePackageNotFound, "registry has no release for %s", name)
	}
	return &rel, nil
}

package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	perrors "github.com/dappnode/packages-status/pkg/errors"
	"github.com/dappnode/packages-status/pkg/httputil"
	"github.com/dappnode/packages-status/pkg/integrations"
	"github.com/dappnode/packages-status/pkg/status"
)

// DefaultEndpoint is the GitHub GraphQL API.
const DefaultEndpoint = "https://api.github.com/graphql"

// Client runs the batched latest-release query against the GitHub GraphQL
// API. Responses are never cached: every refresh must see current releases.
type Client struct {
	*integrations.Client
	endpoint string
}

// NewClient creates a GraphQL client. Pass an empty string for token to
// send unauthenticated requests, which GitHub rejects for GraphQL; the
// resulting error names the missing token.
func NewClient(token string) *Client {
	headers := map[string]string{"Accept": "application/json"}
	if token != "" {
		headers["Authorization"] = "bearer " + token
	}
	return &Client{
		Client:   integrations.NewClient(nil, "github", 0, headers),
		endpoint: DefaultEndpoint,
	}
}

// SetEndpoint points the client at another GraphQL endpoint, e.g. GitHub
// Enterprise.
func (c *Client) SetEndpoint(url string) {
	if url != "" {
		c.endpoint = url
	}
}

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlError struct {
	Type    string   `json:"type"`
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

type graphqlResponse struct {
	Data   status.BatchResult `json:"data"`
	Errors []graphqlError     `json:"errors"`
}

// LatestReleases executes query and returns its data object keyed by alias.
//
// A repository that does not exist comes back from GitHub as a null alias
// plus a NOT_FOUND error. That is reported as an absent entry, so the
// package is classified as indeterminate instead of failing the whole
// batch. Any other GraphQL error fails the query.
func (c *Client) LatestReleases(ctx context.Context, query string) (status.BatchResult, error) {
	var resp graphqlResponse
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.Post(ctx, c.endpoint, graphqlRequest{Query: query}, &resp)
	})
	switch {
	case errors.Is(err, integrations.ErrUnauthorized):
		return nil, perrors.Wrap(perrors.ErrCodeUnauthorized, err, "github rejected the token, set GITHUB_TOKEN")
	case errors.Is(err, integrations.ErrRateLimited):
		return nil, perrors.Wrap(perrors.ErrCodeRateLimited, &perrors.RateLimitedError{}, "latest releases query")
	case err != nil:
		return nil, perrors.Wrap(perrors.ErrCodeQueryFailed, err, "latest releases query")
	}

	if err := checkErrors(resp.Errors); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = status.BatchResult{}
	}
	return resp.Data, nil
}

func checkErrors(errs []graphqlError) error {
	var msgs []string
	for _, e := range errs {
		switch e.Type {
		case "NOT_FOUND":
			continue
		case "RATE_LIMITED":
			return perrors.Wrap(perrors.ErrCodeRateLimited, &perrors.RateLimitedError{Message: e.Message}, "latest releases query")
		}
		msg := e.Message
		if len(e.Path) > 0 {
			msg = fmt.Sprintf("%s: %s", strings.Join(e.Path, "."), msg)
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) > 0 {
		return perrors.New(perrors.ErrCodeQueryFailed, "latest releases query: %s", strings.Join(msgs, "; "))
	}
	return nil
}

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	perrors "github.com/dappnode/packages-status/pkg/errors"
	"github.com/dappnode/packages-status/pkg/status"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("test-token")
	c.SetEndpoint(server.URL)
	c.SetHTTPClient(server.Client())
	return c
}

func TestLatestReleases(t *testing.T) {
	var gotAuth, gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req graphqlRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotQuery = req.Query
		w.Write([]byte(`{"data":{
			"rdnpgeth":{"latestRelease":{"tagName":"v1.14.0"}},
			"rdnpteku":{"latestRelease":null},
			"rdnpgone":null
		}}`))
	})

	got, err := c.LatestReleases(context.Background(), "{ q }")
	if err != nil {
		t.Fatalf("LatestReleases() error: %v", err)
	}
	if gotAuth != "bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotQuery != "{ q }" {
		t.Errorf("query = %q", gotQuery)
	}

	want := status.BatchResult{
		"rdnpgeth": {LatestRelease: &status.Release{TagName: "v1.14.0"}},
		"rdnpteku": {},
		"rdnpgone": nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LatestReleases() mismatch (-want +got):\n%s", diff)
	}
}

func TestLatestReleasesNotFoundIsAbsent(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"rdnpgone":null},"errors":[
			{"type":"NOT_FOUND","path":["rdnpgone"],"message":"Could not resolve to a Repository"}
		]}`))
	})

	got, err := c.LatestReleases(context.Background(), "{}")
	if err != nil {
		t.Fatalf("NOT_FOUND should not fail the batch: %v", err)
	}
	if got.LatestTag("rdnpgone") != nil {
		t.Error("missing repository should be absent")
	}
}

func TestLatestReleasesErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode perrors.Code
	}{
		{"graphql error", 200, `{"errors":[{"type":"PARSE","message":"syntax error"}]}`, perrors.ErrCodeQueryFailed},
		{"graphql rate limit", 200, `{"errors":[{"type":"RATE_LIMITED","message":"slow down"}]}`, perrors.ErrCodeRateLimited},
		{"unauthorized", 401, `{"message":"Bad credentials"}`, perrors.ErrCodeUnauthorized},
		{"too many requests", 429, ``, perrors.ErrCodeRateLimited},
		{"bad request", 400, ``, perrors.ErrCodeQueryFailed},
		{"malformed body", 200, `not json`, perrors.ErrCodeQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.LatestReleases(context.Background(), "{}")
			if err == nil {
				t.Fatal("expected error")
			}
			if code := perrors.GetCode(err); code != tt.wantCode {
				t.Errorf("code = %q, want %q (err: %v)", code, tt.wantCode, err)
			}
		})
	}
}

func TestLatestReleasesEmptyData(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	})
	got, err := c.LatestReleases(context.Background(), "{}")
	if err != nil {
		t.Fatalf("LatestReleases() error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty result", got)
	}
}

func TestNewClientWithoutToken(t *testing.T) {
	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	c := NewClient("")
	c.SetEndpoint(server.URL)
	c.SetHTTPClient(server.Client())
	if _, err := c.LatestReleases(context.Background(), "{}"); err != nil {
		t.Fatalf("LatestReleases() error: %v", err)
	}
	if sawAuth {
		t.Error("no Authorization header expected without a token")
	}
}

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		ref     string
		owner   string
		repo    string
		wantErr bool
	}{
		{"ethereum/go-ethereum", "ethereum", "go-ethereum", false},
		{"ChainSafe/lodestar", "ChainSafe", "lodestar", false},
		{"status-im/nimbus-eth2", "status-im", "nimbus-eth2", false},
		{"-bad/repo", "", "", true},
		{"owner/re po", "", "", true},
		{"noslash", "", "", true},
		{"/repo", "", "", true},
	}
	for _, tt := range tests {
		owner, repo, err := ParseRepoRef(tt.ref)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRepoRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRepoRef(%q) = %q, %q", tt.ref, owner, repo)
		}
	}
}

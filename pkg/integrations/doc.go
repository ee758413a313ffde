// Package integrations provides the HTTP clients for the services a refresh
// cycle talks to. Each service has its own subpackage:
//
//   - [registry]: the DAppNode package registry (latest version and content
//     URI of a package)
//   - [ipfs]: directory listings and file contents of a release
//   - [github]: the batched GraphQL latest-release query
//
// # Shared Infrastructure
//
// The [Client] type provides the shared HTTP plumbing: default headers,
// response caching through [cache.Cache], retries for transient failures,
// per-host circuit breakers and the observability HTTP hooks.
//
// [registry]: github.com/dappnode/packages-status/pkg/integrations/registry
// [ipfs]: github.com/dappnode/packages-status/pkg/integrations/ipfs
// [github]: github.com/dappnode/packages-status/pkg/integrations/github
// [cache.Cache]: github.com/dappnode/packages-status/pkg/cache.Cache
package integrations

// Package httputil provides HTTP utilities for the registry, IPFS and
// GitHub clients.
//
// # Overview
//
// This package provides infrastructure used by all remote clients:
//
//   - [Retry]: Automatic retry with exponential backoff
//   - [WithTimeout]: Bounded wait around any blocking operation
//   - [Breakers]: Per-host circuit breakers
//   - [NewTransport]: HTTP transport with a DNS cache
//
// # Retry
//
// [Retry] only retries errors wrapped in [RetryableError]: network errors
// and 5xx responses. Everything else is returned immediately.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetch(ctx)
//	})
//
// # Bounded wait
//
// [WithTimeout] gives one operation its own deadline, independent of the
// other operations running in the same refresh cycle:
//
//	entries, err := httputil.WithTimeout(ctx, 3*time.Second, func(ctx context.Context) ([]Entry, error) {
//	    return gateway.List(ctx, cid)
//	})
//
// # Circuit breaking
//
// [Breakers] keeps one breaker per upstream host. A host that fails five
// times in a row is skipped until its backoff interval elapses, so a dead
// gateway does not stall every package in a cycle.
//
// # Configuration
//
// Default settings:
//
//   - Max retries: 3
//   - Base backoff: 1 second
//   - Breaker threshold: 5 consecutive failures
//   - DNS cache refresh: 5 minutes
package httputil

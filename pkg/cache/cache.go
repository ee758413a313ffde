// Package cache provides the byte-level caches used by the integration
// clients.
//
// Four backends implement [Cache]:
//
//   - [FileCache] stores entries as JSON files under the user cache
//     directory. This is the CLI default.
//   - [MemoryCache] keeps a bounded LRU in process. The server uses it when no
//     Redis address is configured.
//   - [RedisCache] shares entries between server replicas.
//   - [NullCache] stores nothing (--no-cache).
//
// [Scoped] wraps any backend with a key prefix and reports hits and misses to
// the observability hooks.
//
// Entries written with a zero TTL never expire. IPFS content is addressed by
// hash and is cached that way; registry lookups get a short TTL. Upstream
// release lookups are never cached since freshness is the whole point of a
// refresh.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for raw response bodies.
//
// Get reports a miss with ok=false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

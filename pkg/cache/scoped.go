package cache

import (
	"context"
	"time"

	"github.com/dappnode/packages-status/pkg/observability"
)

// Scoped prefixes every key with a namespace so that several clients can
// share one backend. Hits, misses and writes are reported to
// [observability.Cache] under the namespace.
type Scoped struct {
	inner     Cache
	namespace string
}

// NewScoped wraps inner. A nil inner behaves like [NullCache].
func NewScoped(inner Cache, namespace string) *Scoped {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{inner: inner, namespace: namespace}
}

func (s *Scoped) key(k string) string { return s.namespace + ":" + k }

// Get looks up key within the namespace.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := s.inner.Get(ctx, s.key(key))
	if err != nil {
		return nil, false, err
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, s.namespace)
	} else {
		observability.Cache().OnCacheMiss(ctx, s.namespace)
	}
	return data, ok, nil
}

// Set stores key within the namespace.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := s.inner.Set(ctx, s.key(key), data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, s.namespace, len(data))
	return nil
}

// Delete removes key within the namespace.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.key(key))
}

// Close closes the wrapped backend.
func (s *Scoped) Close() error { return s.inner.Close() }

var _ Cache = (*Scoped)(nil)

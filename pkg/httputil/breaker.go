package httputil

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// ErrUpstreamDown is returned when a host's breaker is open.
var ErrUpstreamDown = errors.New("upstream unavailable")

// tripThreshold is the number of consecutive failures that opens a breaker.
const tripThreshold = 5

// Breakers holds one circuit breaker per upstream host.
type Breakers struct {
	mu       sync.RWMutex
	breakers map[string]*circuit.Breaker
}

// NewBreakers creates an empty breaker set.
func NewBreakers() *Breakers {
	return &Breakers{breakers: make(map[string]*circuit.Breaker)}
}

func (b *Breakers) get(host string) *circuit.Breaker {
	b.mu.RLock()
	br, ok := b.breakers[host]
	b.mu.RUnlock()
	if ok {
		return br
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if br, ok := b.breakers[host]; ok {
		return br
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	br = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(tripThreshold),
	})
	b.breakers[host] = br
	return br
}

// Do runs fn under the breaker of the host in rawURL. Only retryable
// failures count against the breaker; a 404 says nothing about the host's
// health.
func (b *Breakers) Do(rawURL string, fn func() error) error {
	host := Host(rawURL)
	br := b.get(host)
	if !br.Ready() {
		return fmt.Errorf("%w: %s", ErrUpstreamDown, host)
	}

	var callErr error
	err := br.Call(func() error {
		callErr = fn()
		if isRetryable(callErr) {
			return callErr
		}
		return nil
	}, 0)
	if callErr != nil {
		return callErr
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstreamDown, host, err)
	}
	return nil
}

// States reports "open" or "closed" for every host seen so far.
func (b *Breakers) States() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	states := make(map[string]string, len(b.breakers))
	for host, br := range b.breakers {
		if br.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}

// Host extracts the host of rawURL for breaker grouping.
func Host(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		if len(rawURL) > 50 {
			return rawURL[:50]
		}
		return rawURL
	}
	return parsed.Host
}

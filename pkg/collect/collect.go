// Package collect gathers the package records of one refresh cycle.
//
// For every configured package the [Collector] looks up the latest release
// in the registry, lists the release directory on IPFS, reads the manifest
// and produces a pending [status.Row] plus, when the manifest names an
// upstream repository, the query fragment that resolves it.
//
// Packages are collected concurrently. A package that fails at any step is
// logged and left out of the result; it never fails the cycle.
package collect

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/dappnode/packages-status/pkg/errors"
	"github.com/dappnode/packages-status/pkg/httputil"
	"github.com/dappnode/packages-status/pkg/integrations"
	"github.com/dappnode/packages-status/pkg/integrations/github"
	"github.com/dappnode/packages-status/pkg/integrations/ipfs"
	"github.com/dappnode/packages-status/pkg/integrations/registry"
	"github.com/dappnode/packages-status/pkg/observability"
	"github.com/dappnode/packages-status/pkg/query"
	"github.com/dappnode/packages-status/pkg/status"
)

const (
	// DefaultConcurrency bounds the number of packages collected at once.
	DefaultConcurrency = 8

	// DefaultTimeout bounds the wait for a single package.
	DefaultTimeout = 30 * time.Second
)

// Registry resolves the latest release of a package.
type Registry interface {
	Latest(ctx context.Context, name string) (*registry.Release, error)
}

// Store reads release content.
type Store interface {
	List(ctx context.Context, cid string) ([]ipfs.Entry, error)
	Cat(ctx context.Context, cid string) ([]byte, error)
}

// Skipped records a package left out of a collection.
type Skipped struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Collection is the outcome of one collection pass.
type Collection struct {
	Rows      []status.Row
	Fragments []string
	Skipped   []Skipped
}

// Query folds the fragments into the batched query document.
func (c *Collection) Query() string { return query.Build(c.Fragments) }

// Collector gathers package records.
type Collector struct {
	registry    Registry
	store       Store
	logger      *log.Logger
	concurrency int
	timeout     time.Duration
}

// Option configures a Collector.
type Option func(*Collector)

// WithConcurrency sets the number of packages collected at once.
func WithConcurrency(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTimeout sets the per-package wait bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger skipped packages are reported to.
func WithLogger(l *log.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Collector.
func New(reg Registry, store Store, opts ...Option) *Collector {
	c := &Collector{
		registry:    reg,
		store:       store,
		logger:      log.Default(),
		concurrency: DefaultConcurrency,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type outcome struct {
	row      status.Row
	fragment string
	err      error
}

// Collect gathers names. The result keeps the order of names minus the
// skipped packages. It only fails when ctx is cancelled.
func (c *Collector) Collect(ctx context.Context, names []string) (*Collection, error) {
	outcomes := make([]outcome, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, name := range names {
		g.Go(func() error {
			start := time.Now()
			out, err := httputil.WithTimeout(gctx, c.timeout, func(ctx context.Context) (outcome, error) {
				return c.collectOne(ctx, name)
			})
			if err != nil {
				out.err = err
			}
			outcomes[i] = out
			observability.Refresh().OnPackageCollected(gctx, name, time.Since(start), err)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	coll := &Collection{}
	for i, out := range outcomes {
		if out.err != nil {
			c.logger.Warn("skipping package", "package", names[i], "err", out.err)
			coll.Skipped = append(coll.Skipped, Skipped{Name: names[i], Error: errors.UserMessage(out.err)})
			continue
		}
		coll.Rows = append(coll.Rows, out.row)
		if out.fragment != "" {
			coll.Fragments = append(coll.Fragments, out.fragment)
		}
	}
	return coll, nil
}

func (c *Collector) collectOne(ctx context.Context, name string) (outcome, error) {
	reg, err := status.RegistryOf(name)
	if err != nil {
		return outcome{}, errors.Wrap(errors.ErrCodeUnknownRegistry, err, "%s", name)
	}

	rel, err := c.registry.Latest(ctx, name)
	if err != nil {
		return outcome{}, err
	}
	cid, err := errors.ValidateContentURI(rel.ContentURI)
	if err != nil {
		return outcome{}, err
	}

	entries, err := c.store.List(ctx, cid)
	if err != nil {
		return outcome{}, err
	}
	manifestCID := ""
	for _, e := range entries {
		if IsManifest(e.Name) {
			manifestCID = e.CID
			break
		}
	}
	if manifestCID == "" {
		return outcome{}, errors.New(errors.ErrCodeManifestNotFound, "manifest not found in %s", rel.ContentURI)
	}

	raw, err := c.store.Cat(ctx, manifestCID)
	if err != nil {
		return outcome{}, err
	}
	m, err := ParseManifest(raw)
	if err != nil {
		return outcome{}, err
	}
	upstreamRepo, upstreamVersion := m.DeclaredUpstream()

	var fragment string
	if upstreamRepo != "" {
		if _, _, err := github.ParseRepoRef(upstreamRepo); err != nil {
			return outcome{}, err
		}
		if fragment, err = query.Fragment(name, reg, upstreamRepo); err != nil {
			return outcome{}, err
		}
	}

	return outcome{
		row: status.Row{
			Name:             name,
			Registry:         reg,
			Version:          rel.Version,
			ContentURI:       rel.ContentURI,
			Status:           status.StatusPending,
			DeclaredUpstream: status.Clean(upstreamVersion),
			RepoURL:          integrations.NormalizeRepoURL(m.Repository.URL),
			UpstreamRepo:     upstreamRepo,
		},
		fragment: fragment,
	}, nil
}

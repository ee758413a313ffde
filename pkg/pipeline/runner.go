package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dappnode/packages-status/pkg/collect"
	"github.com/dappnode/packages-status/pkg/observability"
	"github.com/dappnode/packages-status/pkg/query"
	"github.com/dappnode/packages-status/pkg/status"
)

// Runner executes refresh cycles.
//
// The Runner keeps no results between calls. Multiple goroutines can use
// the same Runner.
type Runner struct {
	Collector Collector
	Resolver  Resolver
	Packages  []string
	Logger    *log.Logger

	now func() time.Time
}

// NewRunner creates a runner for packages.
// If logger is nil, the default charm logger is used.
func NewRunner(c Collector, r Resolver, packages []string, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Collector: c,
		Resolver:  r,
		Packages:  packages,
		Logger:    logger,
		now:       time.Now,
	}
}

// Collect runs only the collection stage.
func (r *Runner) Collect(ctx context.Context) (*collect.Collection, error) {
	coll, err := r.Collector.Collect(ctx, r.Packages)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	return coll, nil
}

// Refresh runs a complete cycle. A failed upstream query fails the whole
// cycle; packages that could not be collected are listed in
// Report.Skipped instead.
func (r *Runner) Refresh(ctx context.Context) (*Report, error) {
	start := r.now()
	hooks := observability.Refresh()
	hooks.OnRefreshStart(ctx, len(r.Packages))

	report, err := r.refresh(ctx)
	took := r.now().Sub(start)
	if err != nil {
		hooks.OnRefreshComplete(ctx, 0, took, err)
		return nil, err
	}
	hooks.OnRefreshComplete(ctx, len(report.Rows), took, nil)

	r.Logger.Info("refresh complete",
		"packages", len(report.Rows),
		"outdated", report.Summary.Outdated,
		"skipped", len(report.Skipped),
		"duration", took.Round(time.Millisecond))
	return report, nil
}

func (r *Runner) refresh(ctx context.Context) (*Report, error) {
	coll, err := r.Collect(ctx)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("collected packages", "rows", len(coll.Rows), "fragments", len(coll.Fragments))
	for field, keys := range status.DetectCollisions(coll.Rows) {
		r.Logger.Warn("query alias shared by several packages", "alias", field, "packages", keys)
	}

	q := coll.Query()
	rows, err := r.Resolve(ctx, coll.Rows, q)
	if err != nil {
		return nil, err
	}
	return &Report{
		ID:          uuid.New(),
		GeneratedAt: r.now().UTC(),
		Rows:        rows,
		Summary:     status.Summarize(rows),
		Skipped:     coll.Skipped,
		Query:       q,
	}, nil
}

// Resolve sends q upstream and classifies rows against the result. A query
// that selects nothing skips the upstream call, and every row is then
// classified against an empty result.
func (r *Runner) Resolve(ctx context.Context, rows []status.Row, q string) ([]status.Row, error) {
	result := status.BatchResult{}
	if !query.Empty(q) {
		start := r.now()
		var err error
		result, err = r.Resolver.LatestReleases(ctx, q)
		observability.Refresh().OnQueryComplete(ctx, len(result), r.now().Sub(start), err)
		if err != nil {
			return nil, err
		}
	}
	return status.ResolveAll(rows, result), nil
}

// Package pipeline runs the refresh cycle of the status dashboard.
//
// A refresh has three stages:
//
//  1. Collect: read every configured package's latest release and manifest
//  2. Query: send the batched latest-release query upstream
//  3. Resolve: classify each row and order the result by urgency
//
// The CLI and the HTTP API both go through [Runner], so a report looks the
// same whichever surface produced it.
//
// # Usage
//
//	runner := pipeline.NewRunner(collector, githubClient, cfg.Packages, logger)
//	report, err := runner.Refresh(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, row := range report.Rows {
//	    fmt.Println(row.Name, row.Status)
//	}
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dappnode/packages-status/pkg/collect"
	"github.com/dappnode/packages-status/pkg/status"
)

// Collector gathers the pending rows and query fragments of a cycle.
type Collector interface {
	Collect(ctx context.Context, names []string) (*collect.Collection, error)
}

// Resolver executes a batched latest-release query.
type Resolver interface {
	LatestReleases(ctx context.Context, query string) (status.BatchResult, error)
}

// Report is the outcome of one refresh cycle.
type Report struct {
	ID          uuid.UUID         `json:"id"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Rows        []status.Row      `json:"rows"`
	Summary     status.Summary    `json:"summary"`
	Skipped     []collect.Skipped `json:"skipped,omitempty"`
	Query       string            `json:"-"`
}

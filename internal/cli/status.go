package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dappnode/packages-status/pkg/pipeline"
	"github.com/dappnode/packages-status/pkg/status"
)

type statusOptions struct {
	filter      string
	json        bool
	interactive bool
	noCache     bool
}

// statusCommand creates the status command.
func (c *CLI) statusCommand() *cobra.Command {
	var opts statusOptions

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Refresh and print the update status of every package",
		Long: `Refresh reads every configured package from the registry, queries GitHub for
the latest upstream releases in one batched request, and prints the packages
ordered from most to least outdated.`,
		Example: `  packages-status status
  packages-status status --filter gnosis
  packages-status status --json > status.json
  packages-status status --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStatus(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "", "only show packages matching this text")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print rows as JSON")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the result interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the registry and IPFS cache")
	cmd.MarkFlagsMutuallyExclusive("json", "interactive")

	return cmd
}

func (c *CLI) runStatus(ctx context.Context, opts statusOptions) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireRemote(); err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, opts.noCache, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var report *pipeline.Report
	if opts.json {
		report, err = a.runner.Refresh(ctx)
	} else {
		spin := newSpinnerWithContext(ctx, "Refreshing package status...")
		spin.Start()
		report, err = a.runner.Refresh(ctx)
		if err != nil {
			spin.StopWithError("Refresh failed")
		} else {
			spin.StopWithSuccess(fmt.Sprintf("Refreshed %d packages", len(report.Rows)))
		}
	}
	if err != nil {
		return err
	}

	switch {
	case opts.json:
		return writeRowsJSON(os.Stdout, status.Filter(report.Rows, opts.filter))
	case opts.interactive:
		return runBrowser(report.Rows, opts.filter)
	default:
		printReport(report, opts.filter)
		return nil
	}
}

func writeRowsJSON(w io.Writer, rows []status.Row) error {
	if rows == nil {
		rows = []status.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func printReport(report *pipeline.Report, filter string) {
	rows := status.Filter(report.Rows, filter)
	if len(rows) == 0 {
		printInfo("No packages match %q", filter)
		return
	}

	printNewline()
	fmt.Println(rowsTable(rows, -1).Render())
	printNewline()
	fmt.Print(renderSummary(status.Summarize(rows)))

	if len(report.Skipped) > 0 {
		printNewline()
		printWarning("%d packages skipped", len(report.Skipped))
		for _, s := range report.Skipped {
			printDetail("%s: %s", s.Name, s.Error)
		}
	}

	printNewline()
	printKeyValue("Report", report.ID.String())
	printKeyValue("Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// queryCommand creates the query command.
func (c *CLI) queryCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the batched GraphQL query a refresh would send",
		Long: `Query runs the collection stage only and prints the GitHub GraphQL query
built from the packages' upstream repositories. No GitHub token is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd.Context(), noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the registry and IPFS cache")
	return cmd
}

func (c *CLI) runQuery(ctx context.Context, noCache bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireRegistry(); err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, noCache, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	st := startStage(logger, "collect")
	coll, err := a.runner.Collect(ctx)
	if err != nil {
		st.fail(err)
		return err
	}
	st.done("collected packages", "packages", len(coll.Rows), "upstreams", len(coll.Fragments), "skipped", len(coll.Skipped))

	fmt.Println(coll.Query())
	return nil
}

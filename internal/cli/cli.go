// Package cli implements the packages-status command-line interface.
//
// The status command refreshes the update status of the configured DAppNode
// packages and prints it as a table with a summary chart, as JSON, or in an
// interactive browser. serve exposes the same data over HTTP, query prints the
// batched upstream query, and cache manages the response cache.
//
// All commands accept --verbose (-v), which lowers the log level to debug and
// registers logging observability hooks. Commands read their logger from the
// context set up by the root command.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dappnode/packages-status/pkg/buildinfo"
	"github.com/dappnode/packages-status/pkg/config"
	"github.com/dappnode/packages-status/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "packages-status reports whether DAppNode packages track their upstream releases",
		Long: `packages-status reads the latest release of each configured DAppNode package,
compares the upstream version it was built against with the latest GitHub
release of that upstream, and reports how far behind each package is.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetRefreshHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger, cmd.Name()))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/packages-status/config.toml)")

	root.AddCommand(c.statusCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration named by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

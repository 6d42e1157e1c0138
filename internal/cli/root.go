package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/naseej/meshdesign/pkg/buildinfo"
)

// Execute runs the meshdesign CLI and returns an error if any command
// fails. This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (serve,
// design, edit, export, designs), configures logging based on the
// --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "meshdesign",
		Short:        "meshdesign edits and lays out integration mesh graphs",
		Long:         `meshdesign is the mesh graph editor for integration flows: message brokers, HTTP endpoints, databases, filters, and AI nodes connected by data-flow edges, with automatic layered layout and AI-assisted design synthesis.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newDesignCmd(&configPath))
	root.AddCommand(newEditCmd(&configPath))
	root.AddCommand(newExportCmd())
	root.AddCommand(newDesignsCmd())

	return root.ExecuteContext(ctx)
}

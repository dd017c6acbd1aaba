// Package cmd implements the actuate CLI commands.
//
// The command structure follows standard cobra patterns with a root command
// that dispatches to subcommands (run, version).
package cmd

import (
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "actuate",
		Short: "Actuate - declarative render trees with hooks, driven by readiness polling",
		Long: `Actuate renders trees of views whose state lives in hooks. State changes
are queued by setters and applied when the driver polls the tree, and the
resulting change lists are applied to a host surface.

Use "actuate <command> --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// tracecheck - Traceability Graph Validation
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/tracecheck

// Package cli provides the Cobra-based commands of tracecheck: the root
// command that validates the spec, plan and task collections, the tree view
// of the traceability forest, and the config and version utilities.
package cli

import (
	"context"
	"io"

	"github.com/ariel-frischer/tracecheck/internal/cli/shared"
	clierrors "github.com/ariel-frischer/tracecheck/internal/errors"
	"github.com/spf13/cobra"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupValidation    = shared.GroupValidation
	GroupConfiguration = shared.GroupConfiguration
)

// NewRootCmd builds the command tree. Every call returns a fresh tree so
// flag state never leaks between invocations.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tracecheck",
		Short: "Validate Spec -> Plan -> Task traceability",
		Long: `tracecheck validates Spec -> Plan -> Task traceability

Reads the spec, plan and task collections, checks that every plan points at a
spec, every task points at a plan, ids are unique and issue numbers line up,
then exits 0 when everything holds and 1 otherwise.

Source: https://github.com/ariel-frischer/tracecheck`,
		Example: `  # Validate ./specs, ./plans and ./tasks
  tracecheck

  # Validate collections stored elsewhere
  tracecheck --specs-dir docs/specs --plans-dir docs/plans --tasks-dir docs/tasks

  # Machine-readable report for CI annotations
  tracecheck --format json

  # Show the Spec -> Plan -> Task forest
  tracecheck tree`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCheck,
	}

	// Define command groups in display order
	rootCmd.AddGroup(&cobra.Group{ID: GroupValidation, Title: "Validation:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})

	// Assign built-in help and completion to configuration group
	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", ".tracecheck.json", "Path to config file")
	rootCmd.PersistentFlags().String("specs-dir", "./specs", "Directory containing specs")
	rootCmd.PersistentFlags().String("plans-dir", "./plans", "Directory containing plans")
	rootCmd.PersistentFlags().String("tasks-dir", "./tasks", "Directory containing tasks")
	rootCmd.PersistentFlags().String("format", "text", "Report format: text or json")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show expected values and hints under each error")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			"Run '"+cmd.CommandPath()+" --help' to list the accepted flags")
	})

	rootCmd.AddCommand(newTreeCmd(), newConfigCmd(), newVersionCmd())
	return rootCmd
}

// Execute runs the root command and prints any error that the command did
// not already report.
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(context.Background())
	printError(rootCmd.ErrOrStderr(), err)
	return err
}

// printError writes err to w unless it is nil or a bare exit code.
func printError(w io.Writer, err error) {
	if err == nil || shared.IsExitError(err) {
		return
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr)
		return
	}
	clierrors.FprintError(w, clierrors.Wrap(err, clierrors.Runtime))
}

// noArgs rejects positional arguments with a usage hint.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return clierrors.UnexpectedArguments(cmd.CommandPath(), args)
	}
	return nil
}

package cli

import (
	"fmt"
	"io"

	"github.com/ariel-frischer/tracecheck/internal/validation"
	"github.com/spf13/cobra"
)

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the Spec -> Plan -> Task forest",
		Long: `Print the Spec -> Plan -> Task forest built from the collections.

Plans and tasks whose parent cannot be found are listed as detached and parent
cycles are listed separately. The exit code is the same as the root command:
violations are printed to stderr after the forest. The tree is always printed
as text.`,
		Example: `  # Show the forest for the default collections
  tracecheck tree

  # Forest for a nested docs layout
  tracecheck tree --specs-dir docs/specs --plans-dir docs/plans --tasks-dir docs/tasks`,
		GroupID: GroupValidation,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			// The forest is always text.
			s.cfg.Format = formatText

			result, err := s.validate(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprint(s.stdout, result.Forest.Render())
			if !result.Valid {
				fmt.Fprintln(s.stderr)
				printErrorLines(s.stderr, result)
				symbols := s.reportOptions().Symbols
				fmt.Fprintf(s.stderr, "\n%s traceability check failed: %d error(s)\n", symbols.Failure, len(result.Errors))
			}
			return exitFor(result)
		},
	}
}

// printErrorLines writes one line per validation error to w.
func printErrorLines(w io.Writer, result *validation.Result) {
	for _, e := range result.Errors {
		fmt.Fprintln(w, e.Error())
	}
}

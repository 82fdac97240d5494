package cli

import (
	"encoding/json"
	"fmt"

	"github.com/ariel-frischer/tracecheck/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration tracecheck would run with, as JSON.

Values are merged in this order, later sources winning:
  1. built-in defaults
  2. global config (~/.tracecheck/config.json)
  3. local config (--config, default .tracecheck.json)
  4. TRACECHECK_* environment variables
  5. command-line flags`,
		Example: `  # Show the merged configuration
  tracecheck config

  # Check what an environment override resolves to
  TRACECHECK_SPECS_DIR=docs/specs tracecheck config`,
		GroupID: GroupConfiguration,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(s.cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			fmt.Fprintln(s.stdout, string(data))
			fmt.Fprintf(s.stderr, "global config: %s\n", config.GlobalConfigPath())
			return nil
		},
	}
}

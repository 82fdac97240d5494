package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/ariel-frischer/tracecheck/internal/config"
	clierrors "github.com/ariel-frischer/tracecheck/internal/errors"
	"github.com/ariel-frischer/tracecheck/internal/locate"
	"github.com/ariel-frischer/tracecheck/internal/logging"
	"github.com/ariel-frischer/tracecheck/internal/progress"
	"github.com/ariel-frischer/tracecheck/internal/report"
	"github.com/ariel-frischer/tracecheck/internal/validation"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// session holds what one command invocation resolved from config, flags
// and the terminal.
type session struct {
	cfg    *config.Configuration
	caps   progress.TerminalCapabilities
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	caps := progress.DetectTerminalCapabilities()
	if cfg.NoColor {
		caps.SupportsColor = false
	}

	s := &session{
		cfg:    cfg,
		caps:   caps,
		logger: logging.New(cmd.ErrOrStderr(), debug),
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}
	s.logger.Debug("configuration resolved",
		"specs", cfg.SpecsDir,
		"plans", cfg.PlansDir,
		"tasks", cfg.TasksDir,
		"extensions", cfg.Extensions,
		"format", cfg.Format)
	return s, nil
}

// loadConfig layers explicitly set flags over config.Load.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	if flags.Changed("config") {
		if _, err := os.Stat(path); err != nil {
			return nil, clierrors.ConfigFileNotFound(path)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, clierrors.ConfigParseError(path, err)
	}

	for name, dst := range map[string]*string{
		"specs-dir": &cfg.SpecsDir,
		"plans-dir": &cfg.PlansDir,
		"tasks-dir": &cfg.TasksDir,
		"format":    &cfg.Format,
	} {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("no-color") {
		cfg.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}

	if err := config.ValidateConfigValues(cfg, "command line"); err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) && verr.Field == "format" {
			return nil, clierrors.InvalidFormat(cfg.Format)
		}
		return nil, clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	}
	return cfg, nil
}

// validate runs the pipeline, showing a spinner on interactive terminals.
func (s *session) validate(ctx context.Context) (*validation.Result, error) {
	roots := locate.Roots{
		Specs: s.cfg.SpecsDir,
		Plans: s.cfg.PlansDir,
		Tasks: s.cfg.TasksDir,
	}
	opts := validation.Options{
		Locate: locate.Options{
			Extensions: s.cfg.Extensions,
			Ignore:     s.cfg.Ignore,
			Logger:     s.logger,
		},
		Logger: s.logger,
	}

	if s.cfg.Format == formatText {
		display := progress.NewProgressDisplay(s.caps, s.stderr)
		display.Start("Scanning collections")
		defer display.StopSpinner()
	}

	result, err := validation.Run(ctx, roots, opts)
	if err != nil {
		if errors.Is(err, locate.ErrNoAccessibleRoots) {
			return nil, clierrors.NoAccessibleRoots(err)
		}
		return nil, clierrors.ValidationAborted(err)
	}
	return result, nil
}

func (s *session) reportOptions() report.Options {
	return report.Options{
		Color:   s.caps.SupportsColor,
		Symbols: progress.SelectSymbols(s.caps),
		Verbose: s.cfg.Verbose,
	}
}

// runCheck is the root command: validate and report.
func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	result, err := s.validate(cmd.Context())
	if err != nil {
		return err
	}

	switch s.cfg.Format {
	case formatJSON:
		if err := report.JSON(s.stdout, result); err != nil {
			return clierrors.ReportWriteError(err)
		}
	default:
		report.Text(s.stdout, s.stderr, result, s.reportOptions())
	}

	return exitFor(result)
}

// exitFor maps a result to nil or an exit-coded error.
func exitFor(result *validation.Result) error {
	if code := report.ExitCode(result); code != ExitSuccess {
		return NewExitError(code)
	}
	return nil
}

package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/ariel-frischer/tracecheck/internal/build"
	"github.com/ariel-frischer/tracecheck/internal/progress"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/tracecheck"

func newVersionCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for tracecheck",
		Example: `  # Show version info
  tracecheck version

  # Plain output (for scripts)
  tracecheck version --plain`,
		GroupID: GroupConfiguration,
		Args:    noArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if plain {
				printPlainVersion(cmd.OutOrStdout())
				return
			}
			printPrettyVersion(cmd.OutOrStdout(), progress.DetectTerminalCapabilities().SupportsColor)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "tracecheck %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints labelled, optionally coloured version output
func printPrettyVersion(w io.Writer, useColor bool) {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)
	dim := color.New(color.Faint)
	for _, c := range []*color.Color{cyan, yellow, dim} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	version := build.Version
	if build.IsDevBuild() {
		version += " (development build)"
	}

	info := []struct {
		label string
		value string
	}{
		{"Version", version},
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}

	fmt.Fprintln(w, cyan.Sprint("tracecheck"))
	for _, item := range info {
		fmt.Fprintf(w, "  %s  %s\n", yellow.Sprintf("%-9s", item.label), item.value)
	}
	fmt.Fprintln(w, dim.Sprint(SourceURL))
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}

// tracecheck - Traceability Graph Validation
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/tracecheck

package main

import (
	"os"

	"github.com/ariel-frischer/tracecheck/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}

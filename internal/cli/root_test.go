// Package cli_test tests the tracecheck commands end to end: flags, config
// layering, report output and exit codes.
// Related: internal/cli/root.go, internal/cli/check.go
// Tags: cli, exit-codes, flags, report
package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/tracecheck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs a fresh command tree the way Execute does and returns what
// reached stdout and stderr plus the process exit code.
func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()

	rootCmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	printError(&stderr, err)
	return stdout.String(), stderr.String(), ExitCode(err)
}

// isolateHome keeps a developer's ~/.tracecheck/config.json out of the run.
// Tests calling it cannot use t.Parallel() because t.Setenv modifies the
// process environment.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func dirFlags(w *testutil.Workspace) []string {
	return []string{"--specs-dir", w.Specs, "--plans-dir", w.Plans, "--tasks-dir", w.Tasks}
}

func TestRoot_ExitCodes(t *testing.T) {
	tests := map[string]struct {
		setup      func(t *testing.T, w *testutil.Workspace)
		wantCode   int
		wantStdout []string
		wantStderr []string
	}{
		"valid spec and plan": {
			setup: func(t *testing.T, w *testutil.Workspace) {
				w.Spec(t, "SPEC-10", 10)
				w.Plan(t, "PLAN-10", 10, "SPEC-10")
			},
			wantCode: ExitSuccess,
			wantStdout: []string{
				"Traceability summary:",
				"  specs:     1\n",
				"  plans:     1\n",
				"  not found: tasks\n",
				"[OK] all traceability invariants hold\n",
			},
		},
		"empty repository passes": {
			setup:      func(t *testing.T, w *testutil.Workspace) {},
			wantCode:   ExitSuccess,
			wantStdout: []string{"  documents: 0\n", "  not found: specs, plans, tasks\n"},
		},
		"plan without spec fails": {
			setup: func(t *testing.T, w *testutil.Workspace) {
				w.Plan(t, "PLAN-11", 11, "SPEC-11")
			},
			wantCode:   ExitValidationFailed,
			wantStdout: []string{"  plans:     1\n"},
			wantStderr: []string{
				`PLAN-11 parentId "SPEC-11" does not match any spec [unresolved-parent]`,
				"[FAIL] traceability check failed: 1 error(s)\n",
			},
		},
		"task without plan fails": {
			setup: func(t *testing.T, w *testutil.Workspace) {
				w.Spec(t, "SPEC-12", 12)
				w.Task(t, "TASK-12", 12, "PLAN-12")
			},
			wantCode:   ExitValidationFailed,
			wantStderr: []string{"TASK-12", "[unresolved-parent]"},
		},
		"parse error fails": {
			setup: func(t *testing.T, w *testutil.Workspace) {
				w.Spec(t, "SPEC-1", 1, testutil.WithRaw("no header here\n"))
			},
			wantCode:   ExitValidationFailed,
			wantStderr: []string{"no header block found [no-header]"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolateHome(t)
			w := testutil.NewWorkspace(t)
			tt.setup(t, w)

			stdout, stderr, code := execute(t, dirFlags(w)...)
			assert.Equal(t, tt.wantCode, code, stderr)
			for _, want := range tt.wantStdout {
				assert.Contains(t, stdout, want)
			}
			for _, want := range tt.wantStderr {
				assert.Contains(t, stderr, want)
			}
			if tt.wantCode == ExitSuccess {
				assert.Empty(t, stderr)
			}
		})
	}
}

func TestRoot_VerboseAddsDetail(t *testing.T) {
	isolateHome(t)
	w := testutil.NewWorkspace(t)
	w.Spec(t, "PLAN-5", 5)

	_, stderr, code := execute(t, append(dirFlags(w), "--verbose")...)
	assert.Equal(t, ExitValidationFailed, code)
	assert.Contains(t, stderr, "    Expected: SPEC-\n")
	assert.Contains(t, stderr, "    Got: PLAN-\n")
}

func TestRoot_JSONFormat(t *testing.T) {
	isolateHome(t)
	w := testutil.NewWorkspace(t)
	w.Spec(t, "SPEC-1", 1)
	w.Task(t, "TASK-1", 1, "PLAN-1")

	stdout, stderr, code := execute(t, append(dirFlags(w), "--format", "json")...)
	assert.Equal(t, ExitValidationFailed, code)
	assert.Empty(t, stderr)

	var got struct {
		Valid   bool `json:"valid"`
		Summary struct {
			Specs int `json:"specs"`
			Tasks int `json:"tasks"`
		} `json:"summary"`
		Missing []string `json:"missing"`
		Errors  []struct {
			Category string `json:"category"`
			Rule     string `json:"rule"`
			ID       string `json:"id"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got), stdout)
	assert.False(t, got.Valid)
	assert.Equal(t, 1, got.Summary.Specs)
	assert.Equal(t, 1, got.Summary.Tasks)
	assert.Equal(t, []string{"plans"}, got.Missing)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, "graph", got.Errors[0].Category)
	assert.Equal(t, "unresolved-parent", got.Errors[0].Rule)
	assert.Equal(t, "TASK-1", got.Errors[0].ID)
}

func TestRoot_ConfigLayering(t *testing.T) {
	isolateHome(t)
	w := testutil.NewWorkspace(t)
	w.Spec(t, "SPEC-1", 1)
	// Only reachable when the config file's plans_dir is replaced by the flag.
	w.Plan(t, "PLAN-1", 1, "SPEC-1")

	cfgPath := filepath.Join(w.Root, "tracecheck.json")
	testutil.WriteFile(t, cfgPath, `{"specs_dir": "`+w.Specs+`", "plans_dir": "`+filepath.Join(w.Root, "elsewhere")+`", "tasks_dir": "`+w.Tasks+`"}`)

	stdout, _, code := execute(t, "--config", cfgPath)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "  plans:     0\n")

	stdout, _, code = execute(t, "--config", cfgPath, "--plans-dir", w.Plans)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "  plans:     1\n")

	t.Setenv("TRACECHECK_FORMAT", "json")
	stdout, _, code = execute(t, "--config", cfgPath)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, `"valid": true`)

	stdout, _, code = execute(t, "--config", cfgPath, "--format", "text")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Traceability summary:")
}

func TestRoot_UsageErrors(t *testing.T) {
	tests := map[string]struct {
		args       func(t *testing.T, w *testutil.Workspace) []string
		wantStderr []string
	}{
		"unknown format": {
			args: func(t *testing.T, w *testutil.Workspace) []string {
				return append(dirFlags(w), "--format", "xml")
			},
			wantStderr: []string{"Argument Error", `unknown output format "xml"`, "tracecheck --format text|json"},
		},
		"positional argument": {
			args: func(t *testing.T, w *testutil.Workspace) []string {
				return append(dirFlags(w), "specs")
			},
			wantStderr: []string{"Argument Error", "tracecheck takes no arguments"},
		},
		"unknown flag": {
			args: func(t *testing.T, w *testutil.Workspace) []string {
				return []string{"--strict"}
			},
			wantStderr: []string{"Argument Error", "unknown flag: --strict", "To fix this:"},
		},
		"empty directory flag": {
			args: func(t *testing.T, w *testutil.Workspace) []string {
				return []string{"--specs-dir", ""}
			},
			wantStderr: []string{"field 'specs_dir': is required"},
		},
		"missing explicit config": {
			args: func(t *testing.T, w *testutil.Workspace) []string {
				return []string{"--config", filepath.Join(w.Root, "nope.json")}
			},
			wantStderr: []string{"Configuration Error", "config file not found"},
		},
		"malformed config": {
			args: func(t *testing.T, w *testutil.Workspace) []string {
				path := filepath.Join(w.Root, "bad.json")
				testutil.WriteFile(t, path, "{")
				return []string{"--config", path}
			},
			wantStderr: []string{"Configuration Error", "failed to load config"},
		},
		"no readable collection": {
			args: func(t *testing.T, w *testutil.Workspace) []string {
				for _, p := range []string{w.Specs, w.Plans, w.Tasks} {
					require.NoError(t, os.WriteFile(p, []byte("file"), 0644))
				}
				return dirFlags(w)
			},
			wantStderr: []string{"Prerequisite Error", "no collection directory could be read"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolateHome(t)
			w := testutil.NewWorkspace(t)

			stdout, stderr, code := execute(t, tt.args(t, w)...)
			assert.Equal(t, ExitValidationFailed, code)
			assert.Empty(t, stdout)
			for _, want := range tt.wantStderr {
				assert.Contains(t, stderr, want)
			}
		})
	}
}

func TestRoot_Idempotent(t *testing.T) {
	isolateHome(t)
	w := testutil.NewWorkspace(t)
	w.Spec(t, "SPEC-1", 1)
	w.Plan(t, "PLAN-1", 2, "SPEC-1")
	w.Task(t, "TASK-1", 1, "PLAN-404")

	firstOut, firstErr, firstCode := execute(t, dirFlags(w)...)
	for range 3 {
		out, errOut, code := execute(t, dirFlags(w)...)
		assert.Equal(t, firstOut, out)
		assert.Equal(t, firstErr, errOut)
		assert.Equal(t, firstCode, code)
	}
}

func TestRoot_EnvExtensionsStillFindDocuments(t *testing.T) {
	isolateHome(t)
	t.Setenv("TRACECHECK_EXTENSIONS", ".md,.markdown")
	w := testutil.NewWorkspace(t)
	w.Plan(t, "PLAN-11", 11, "SPEC-11")
	w.Task(t, "TASK-11", 11, "PLAN-11", testutil.WithFileName("task-11.markdown"))

	stdout, stderr, code := execute(t, dirFlags(w)...)
	assert.Equal(t, ExitValidationFailed, code)
	assert.Contains(t, stdout, "  plans:     1\n")
	assert.Contains(t, stdout, "  tasks:     1\n")
	assert.Contains(t, stdout, "  documents: 2\n")
	assert.Contains(t, stderr, `PLAN-11 parentId "SPEC-11" does not match any spec [unresolved-parent]`)
}

func TestRoot_SymlinkedCollectionIsValidated(t *testing.T) {
	isolateHome(t)
	w := testutil.NewWorkspace(t)
	w.Plan(t, "PLAN-11", 11, "SPEC-11")
	link := filepath.Join(w.Root, "plans-link")
	if err := os.Symlink(w.Plans, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	stdout, stderr, code := execute(t, "--specs-dir", w.Specs, "--plans-dir", link, "--tasks-dir", w.Tasks)
	assert.Equal(t, ExitValidationFailed, code)
	assert.Contains(t, stdout, "  plans:     1\n")
	assert.Contains(t, stderr, filepath.Join(link, "plan-11.md"))
	assert.Contains(t, stderr, "[unresolved-parent]")
}

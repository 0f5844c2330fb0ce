package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/medstore/internal/config"
	"github.com/roach88/medstore/internal/testutil"
)

// testEpoch is the clock reading of every test invocation.
var testEpoch = time.Date(2025, 4, 3, 9, 30, 0, 0, time.UTC)

// cliResult captures one command invocation.
type cliResult struct {
	Stdout string
	Stderr string
	Logs   string
	Err    error
}

// clearEnv blanks every MEDSTORE_* variable so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvConfig, config.EnvDB, config.EnvSeed, config.EnvLogLevel} {
		t.Setenv(key, "")
	}
}

// runCLI executes the root command with args and a fixed clock and trace id.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	opts := &RootOptions{
		Tracer:    testutil.NewFixedTraceGenerator(""),
		Clock:     testutil.NewFakeClock(testEpoch).Now,
		LogWriter: logs,
	}
	cmd := NewRootCommandWithOptions(opts)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return cliResult{Stdout: stdout.String(), Stderr: stderr.String(), Logs: logs.String(), Err: err}
}

// runWithDB is runCLI against the given database file.
func runWithDB(t *testing.T, dbPath string, args ...string) cliResult {
	t.Helper()
	return runCLI(t, append([]string{"--db", dbPath}, args...)...)
}

// newTestDB returns a database path in a fresh temp directory.
func newTestDB(t *testing.T) string {
	t.Helper()
	clearEnv(t)
	return filepath.Join(t.TempDir(), "medicines.db")
}

// envelope is CLIResponse with a typed payload.
type envelope[T any] struct {
	Status  string    `json:"status"`
	Data    T         `json:"data"`
	Error   *CLIError `json:"error"`
	TraceID string    `json:"trace_id"`
}

func decodeEnvelope[T any](t *testing.T, out string) envelope[T] {
	t.Helper()
	var resp envelope[T]
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "stdout: %s", out)
	return resp
}

// assertGolden compares output against testdata/golden/<name>.golden.
// Run with -update to regenerate.
func assertGolden(t *testing.T, name, output string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(output))
}

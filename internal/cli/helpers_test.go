package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// envelope decodes a CLIResponse with its payload left raw.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   *CLIError       `json:"error"`
	TraceID string          `json:"trace_id"`
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// executeJSON runs the root command with --format json and decodes the
// response envelope.
func executeJSON(t *testing.T, args ...string) (envelope, error) {
	t.Helper()
	out, err := execute(t, append([]string{"--format", "json"}, args...)...)
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), "output: %s", out)
	return env, err
}

// decodeData unmarshals the envelope payload into v.
func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

// writeWorkload writes content as workload.cue in a fresh directory.
func writeWorkload(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "workload.cue"), []byte(content), 0644))
	return dir
}

// journalPath returns a fresh journal path in a temp directory.
func journalPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "runs.db")
}

// journalSort runs one sort into the journal at db and returns its run ID.
func journalSort(t *testing.T, db string, args ...string) string {
	t.Helper()
	env, err := executeJSON(t, append([]string{"sort", "--db", db}, args...)...)
	require.NoError(t, err)
	require.NotEmpty(t, env.TraceID)
	return env.TraceID
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "algotrace", cmd.Use)
	assert.Contains(t, cmd.Long, "replayable trace")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"validate", "run", "test", "sort", "search", "maze",
		"replay", "trace", "runs", "serve", "algorithms",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestSearchCompareSubcommand(t *testing.T) {
	cmd := NewRootCommand()
	compareCmd, _, err := cmd.Find([]string{"search", "compare"})
	require.NoError(t, err)
	assert.Equal(t, "compare", compareCmd.Name())
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	dbFlag := runCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	// The journal is optional for run
	assert.Equal(t, "", dbFlag.DefValue)

	require.NotNil(t, runCmd.Flags().Lookup("delay"))
}

func TestSortCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	sortCmd, _, err := cmd.Find([]string{"sort"})
	require.NoError(t, err)

	attempts := sortCmd.Flags().Lookup("max-attempts")
	require.NotNil(t, attempts)
	assert.Equal(t, "10000", attempts.DefValue)

	for _, name := range []string{"db", "seed", "delay", "play", "snapshots"} {
		assert.NotNil(t, sortCmd.Flags().Lookup(name), "sort should have --%s", name)
	}
}

func TestMazeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	mazeCmd, _, err := cmd.Find([]string{"maze"})
	require.NoError(t, err)

	assert.Equal(t, "11", mazeCmd.Flags().Lookup("rows").DefValue)
	assert.Equal(t, "21", mazeCmd.Flags().Lookup("cols").DefValue)
	assert.Equal(t, "bfs", mazeCmd.Flags().Lookup("algorithm").DefValue)
}

func TestReplayCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	replayCmd, _, err := cmd.Find([]string{"replay"})
	require.NoError(t, err)

	require.NotNil(t, replayCmd.Flags().Lookup("db"))
	require.NotNil(t, replayCmd.Flags().Lookup("run"))

	intervalFlag := replayCmd.Flags().Lookup("interval")
	require.NotNil(t, intervalFlag)
	assert.Equal(t, "100ms", intervalFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestTraceCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	traceCmd, _, err := cmd.Find([]string{"trace"})
	require.NoError(t, err)

	require.NotNil(t, traceCmd.Flags().Lookup("db"))
	require.NotNil(t, traceCmd.Flags().Lookup("run"))
	require.NotNil(t, traceCmd.Flags().Lookup("milestones"))
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	assert.Equal(t, ":8000", serveCmd.Flags().Lookup("addr").DefValue)
	assert.Equal(t, ":memory:", serveCmd.Flags().Lookup("db").DefValue)
	assert.Equal(t, "text", serveCmd.Flags().Lookup("log-format").DefValue)
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "algorithms"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/connectn/board"
)

func TestDefaults(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Load(nil))
	assert.Equal(t, board.DefaultConfig(), c.BoardConfig())
	assert.Equal(t, 10*time.Second, c.GetDuration(ConfigTimeBudget))
	assert.Equal(t, 500*time.Millisecond, c.GetDuration(ConfigSafetyMargin))
	assert.True(t, c.GetBool(ConfigTranspositionTable))
	assert.Empty(t, c.Args())
}

func TestFlagsAndArgs(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Load([]string{"--board-width", "7", "--board-height=6",
		"--time-budget", "2s", "--transposition-table=false", "play", "3"}))
	assert.Equal(t, board.Config{Width: 7, Height: 6, WinLength: 4}, c.BoardConfig())
	assert.Equal(t, 2*time.Second, c.GetDuration(ConfigTimeBudget))
	assert.False(t, c.GetBool(ConfigTranspositionTable))
	assert.Equal(t, []string{"play", "3"}, c.Args())
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CONNECTN_WIN_LENGTH", "5")
	t.Setenv("CONNECTN_MAX_DEPTH", "12")
	c := DefaultConfig()
	require.NoError(t, c.Load(nil))
	assert.Equal(t, 5, c.BoardConfig().WinLength)
	assert.Equal(t, 12, c.GetInt(ConfigMaxDepth))
}

func TestFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("CONNECTN_MAX_DEPTH", "12")
	c := DefaultConfig()
	require.NoError(t, c.Load([]string{"--max-depth", "3"}))
	assert.Equal(t, 3, c.GetInt(ConfigMaxDepth))
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connectn.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board-width: 9\nselfplay-threads: 2\n"), 0o644))
	c := DefaultConfig()
	require.NoError(t, c.Load([]string{"--config", path}))
	assert.Equal(t, 9, c.BoardConfig().Width)
	assert.Equal(t, 2, c.GetInt(ConfigSelfplayThreads))
	assert.NotContains(t, c.SanitizedSettings(), ConfigConfigFile)
}

func TestInvalidBoardRejected(t *testing.T) {
	c := DefaultConfig()
	err := c.Load([]string{"--win-length", "1"})
	assert.ErrorIs(t, err, board.ErrInvalidConfig)

	c = DefaultConfig()
	assert.Error(t, c.Load([]string{"--ttable-mem-fraction", "2"}))
}

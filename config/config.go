// Package config holds runtime settings, read from flags, CONNECTN_
// environment variables and an optional config file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/connectn/board"
)

const (
	ConfigDebug                = "debug"
	ConfigConfigFile           = "config"
	ConfigBoardWidth           = "board-width"
	ConfigBoardHeight          = "board-height"
	ConfigWinLength            = "win-length"
	ConfigTimeBudget           = "time-budget"
	ConfigSafetyMargin         = "safety-margin"
	ConfigMaxDepth             = "max-depth"
	ConfigTranspositionTable   = "transposition-table"
	ConfigTTableMemoryFraction = "ttable-mem-fraction"
	ConfigSelfplayGames        = "selfplay-games"
	ConfigSelfplayThreads      = "selfplay-threads"
	ConfigSelfplayLogfile      = "selfplay-logfile"
	ConfigSelfplayOpponent     = "selfplay-opponent"
	ConfigSelfplaySeedFile     = "selfplay-seed-file"
	ConfigSelfplayGenSeeds     = "selfplay-gen-seeds"
	ConfigCPUProfile           = "cpu-profile"
)

const envPrefix = "connectn"

type Config struct {
	*viper.Viper
	args []string
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	bc := board.DefaultConfig()
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigBoardWidth, bc.Width)
	c.SetDefault(ConfigBoardHeight, bc.Height)
	c.SetDefault(ConfigWinLength, bc.WinLength)
	c.SetDefault(ConfigTimeBudget, 10*time.Second)
	c.SetDefault(ConfigSafetyMargin, 500*time.Millisecond)
	c.SetDefault(ConfigMaxDepth, 100)
	c.SetDefault(ConfigTranspositionTable, true)
	c.SetDefault(ConfigTTableMemoryFraction, 0.05)
	c.SetDefault(ConfigSelfplayGames, 100)
	c.SetDefault(ConfigSelfplayThreads, 4)
	c.SetDefault(ConfigSelfplayLogfile, "/tmp/connectn-games.csv")
	c.SetDefault(ConfigSelfplayOpponent, "engine")
	c.SetDefault(ConfigSelfplaySeedFile, "")
	c.SetDefault(ConfigSelfplayGenSeeds, 0)
	c.SetDefault(ConfigCPUProfile, "")
	return c
}

func (c *Config) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("connectn", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, c.GetBool(ConfigDebug), "debug logging on")
	fs.String(ConfigConfigFile, "", "path to a yaml, toml or json config file")
	fs.Int(ConfigBoardWidth, c.GetInt(ConfigBoardWidth), "number of columns")
	fs.Int(ConfigBoardHeight, c.GetInt(ConfigBoardHeight), "number of rows")
	fs.Int(ConfigWinLength, c.GetInt(ConfigWinLength), "counters in a row needed to win")
	fs.Duration(ConfigTimeBudget, c.GetDuration(ConfigTimeBudget), "thinking time per engine move")
	fs.Duration(ConfigSafetyMargin, c.GetDuration(ConfigSafetyMargin), "time held back from the budget")
	fs.Int(ConfigMaxDepth, c.GetInt(ConfigMaxDepth), "maximum search depth in plies")
	fs.Bool(ConfigTranspositionTable, c.GetBool(ConfigTranspositionTable), "use the transposition table")
	fs.Float64(ConfigTTableMemoryFraction, c.GetFloat64(ConfigTTableMemoryFraction),
		"fraction of system memory the transposition table may use")
	fs.Int(ConfigSelfplayGames, c.GetInt(ConfigSelfplayGames), "number of self-play games")
	fs.Int(ConfigSelfplayThreads, c.GetInt(ConfigSelfplayThreads), "self-play worker count")
	fs.String(ConfigSelfplayLogfile, c.GetString(ConfigSelfplayLogfile), "self-play CSV log")
	fs.String(ConfigSelfplayOpponent, c.GetString(ConfigSelfplayOpponent), "engine or random")
	fs.String(ConfigSelfplaySeedFile, c.GetString(ConfigSelfplaySeedFile), "file of self-play seeds")
	fs.Int(ConfigSelfplayGenSeeds, c.GetInt(ConfigSelfplayGenSeeds),
		"write this many fresh seeds to the seed file before playing")
	fs.String(ConfigCPUProfile, c.GetString(ConfigCPUProfile), "write a CPU profile here")
	return fs
}

// Load parses args on top of the defaults. Arguments that are not flags
// are kept and returned by Args.
func (c *Config) Load(args []string) error {
	fs := c.flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	if err := c.BoardConfig().Validate(); err != nil {
		return err
	}
	if c.GetInt(ConfigSelfplayGenSeeds) < 0 {
		return errors.New("selfplay-gen-seeds must not be negative")
	}
	if f := c.GetFloat64(ConfigTTableMemoryFraction); f < 0 || f > 1 {
		return errors.New("ttable-mem-fraction must be between 0 and 1")
	}
	return nil
}

// Args are the non-flag arguments given to Load.
func (c *Config) Args() []string {
	return c.args
}

func (c *Config) BoardConfig() board.Config {
	return board.Config{
		Width:     c.GetInt(ConfigBoardWidth),
		Height:    c.GetInt(ConfigBoardHeight),
		WinLength: c.GetInt(ConfigWinLength),
	}
}

// SanitizedSettings is AllSettings without the config file path.
func (c *Config) SanitizedSettings() map[string]any {
	s := c.AllSettings()
	delete(s, ConfigConfigFile)
	return s
}

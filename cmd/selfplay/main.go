package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectn/automatic"
	"github.com/domino14/connectn/config"
	"github.com/domino14/connectn/shell"
)

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := shell.SelfplayOptions(cfg, cfg.BoardConfig(),
		cfg.GetDuration(config.ConfigTimeBudget),
		cfg.GetInt(config.ConfigMaxDepth),
		cfg.GetBool(config.ConfigTranspositionTable))
	if err != nil {
		log.Fatal().Err(err).Msg("bad-selfplay-options")
	}
	recs, err := automatic.PlayGames(ctx, opts)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("selfplay-failed")
	}
	log.Info().Int("games", len(recs)).Str("logfile", opts.Logfile).Msg("selfplay-done")

	out, err := automatic.AnalyzeLogFile(opts.Logfile)
	if err != nil {
		log.Fatal().Err(err).Msg("analyze-failed")
	}
	fmt.Print(out)
}

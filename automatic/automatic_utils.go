package automatic

// Self-play data collection. Engines play engines, or anything else that
// implements player.Player.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/connectn/board"
	"github.com/domino14/connectn/player"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

const LogHeader = "gameID,p1,p2,winner,plies,first\n"

// PlayerFactory builds a fresh pair of players for one worker. Players are
// not shared between workers.
type PlayerFactory func() (player.Player, player.Player, error)

type Options struct {
	Config   board.Config
	NumGames int
	Threads  int
	// Logfile receives one CSV line per game. Optional.
	Logfile string
	// Seeds, if given, reseed the players before game i with
	// Seeds[i%len(Seeds)].
	Seeds      [][32]byte
	NewPlayers PlayerFactory
}

type job struct {
	idx int
}

// PlayGames plays opts.NumGames games on opts.Threads workers and blocks
// until they finish or ctx is done. The player going first alternates from
// one game to the next.
func PlayGames(ctx context.Context, opts Options) ([]*GameRecord, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	if opts.NewPlayers == nil {
		return nil, errors.New("no player factory")
	}
	threads := max(1, opts.Threads)
	log.Debug().Int("games", opts.NumGames).Int("threads", threads).Msg("starting-games")

	var logfile *os.File
	var err error
	if opts.Logfile != "" {
		logfile, err = os.Create(opts.Logfile)
		if err != nil {
			return nil, err
		}
		defer logfile.Close()
		if _, err := logfile.WriteString(LogHeader); err != nil {
			return nil, err
		}
	}

	CVCCounter.Set(0)
	jobs := make(chan job, 100)
	logChan := make(chan string, 100)
	results := make(chan *GameRecord, 100)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < opts.NumGames; i++ {
			select {
			case jobs <- job{idx: i}:
			case <-gctx.Done():
				log.Info().Msg("got-stop-signal-exiting-soon")
				return nil
			}
		}
		log.Info().Msg("finished-queueing-all-jobs")
		return nil
	})

	workers, wctx := errgroup.WithContext(gctx)
	for range threads {
		workers.Go(func() error {
			p1, p2, err := opts.NewPlayers()
			if err != nil {
				return err
			}
			r := NewGameRunner(opts.Config, logChan)
			if err := r.SetPlayers(p1, p2); err != nil {
				return err
			}
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for j := range jobs {
				if len(opts.Seeds) > 0 {
					seed := opts.Seeds[j.idx%len(opts.Seeds)]
					for _, p := range []player.Player{p1, p2} {
						if s, ok := p.(player.Seeder); ok {
							s.Reseed(seed)
						}
					}
				}
				rec, err := r.PlayGame(wctx, j.idx%2)
				if err != nil {
					return err
				}
				CVCCounter.Add(1)
				results <- rec
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(logChan)
		defer close(results)
		err := workers.Wait()
		log.Info().Int64("played", CVCCounter.Value()).Msg("all-games-finished")
		return err
	})

	// drain the log so workers never block on it
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range logChan {
			if logfile == nil {
				continue
			}
			if _, err := logfile.WriteString(msg); err != nil {
				log.Err(err).Msg("writing-game-log")
			}
		}
	}()

	var recs []*GameRecord
	for rec := range results {
		recs = append(recs, rec)
	}
	<-done
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return recs, err
		}
		return recs, fmt.Errorf("self-play: %w", err)
	}
	return recs, ctx.Err()
}

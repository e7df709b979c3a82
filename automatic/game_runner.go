// Package automatic plays engines and other players against each other,
// with no human in the loop.
package automatic

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectn/board"
	"github.com/domino14/connectn/player"
	"github.com/domino14/connectn/rules"
)

// Draw is the Winner of a GameRecord with no winner.
const Draw = -1

var ErrSameCounter = errors.New("both players use the same counter")

// GameRecord is the outcome of one finished game. Player indexes are into
// the runner's players.
type GameRecord struct {
	ID      string
	Names   [2]string
	First   int
	Winner  int
	Moves   []int
	Forfeit bool
	Final   *board.Board
}

func (g *GameRecord) Plies() int { return len(g.Moves) }

// WinnerName returns the winner's name, or "draw".
func (g *GameRecord) WinnerName() string {
	if g.Winner == Draw {
		return "draw"
	}
	return g.Names[g.Winner]
}

// CSVLine is the record's line in a self-play log.
func (g *GameRecord) CSVLine() string {
	return fmt.Sprintf("%s,%s,%s,%s,%d,%s\n", g.ID, g.Names[0], g.Names[1],
		g.WinnerName(), g.Plies(), g.Names[g.First])
}

// GameRunner referees games between two players.
type GameRunner struct {
	cfg      board.Config
	players  [2]player.Player
	logchan  chan string
	gamechan chan string
}

func NewGameRunner(cfg board.Config, logchan chan string) *GameRunner {
	return &GameRunner{cfg: cfg, logchan: logchan}
}

func (r *GameRunner) SetPlayers(p1, p2 player.Player) error {
	if p1.Counter() == p2.Counter() {
		return ErrSameCounter
	}
	r.players = [2]player.Player{p1, p2}
	return nil
}

// SetGameChannel makes the runner send the display text of every final
// board to ch.
func (r *GameRunner) SetGameChannel(ch chan string) {
	r.gamechan = ch
}

func (r *GameRunner) Players() [2]player.Player { return r.players }

// PlayGame plays a game to the end, players[first] moving first. A player
// that errors or picks an unplayable column forfeits. Only a cancelled
// context makes PlayGame itself fail.
func (r *GameRunner) PlayGame(ctx context.Context, first int) (*GameRecord, error) {
	if r.players[0] == nil || r.players[1] == nil {
		return nil, errors.New("players not set")
	}
	b, err := board.NewBoard(r.cfg)
	if err != nil {
		return nil, err
	}
	rec := &GameRecord{
		ID:     uuid.New().String(),
		Names:  [2]string{r.players[0].Name(), r.players[1].Name()},
		First:  first,
		Winner: Draw,
	}
	onTurn := first
	for !b.IsFull() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.players[onTurn]
		col, err := p.MakeMove(ctx, b)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var pos board.Position
		var next *board.Board
		if err == nil {
			next, pos, err = b.PlayMove(col, p.Counter())
		}
		if err != nil {
			log.Info().Err(err).Str("game-id", rec.ID).Str("player", p.Name()).
				Int("column", col).Msg("player-forfeits")
			rec.Forfeit = true
			rec.Winner = 1 - onTurn
			break
		}
		b = next
		rec.Moves = append(rec.Moves, col)
		if rules.WinsAt(b, pos) {
			rec.Winner = onTurn
			break
		}
		onTurn = 1 - onTurn
	}
	rec.Final = b
	log.Debug().Str("game-id", rec.ID).Str("winner", rec.WinnerName()).
		Int("plies", rec.Plies()).Msg("game-over")

	if r.logchan != nil {
		r.logchan <- rec.CSVLine()
	}
	if r.gamechan != nil {
		r.gamechan <- b.ToDisplayText()
	}
	return rec, nil
}

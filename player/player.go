// Package player wraps the different kinds of move choosers behind one
// interface, so that games can pit any two against each other.
package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/connectn/board"
	"github.com/domino14/connectn/search"
)

var (
	ErrNoPlayableColumn = errors.New("no playable column")
	ErrScriptExhausted  = errors.New("scripted player ran out of moves")
)

type Player interface {
	Name() string
	Counter() board.Counter
	// MakeMove returns the column to drop into. b is never modified.
	MakeMove(ctx context.Context, b *board.Board) (int, error)
}

// EnginePlayer picks moves with the alpha-beta solver.
type EnginePlayer struct {
	name   string
	solver *search.Solver
	budget time.Duration
	// LastResult is the search result behind the latest move.
	LastResult search.Result
}

func NewEnginePlayer(name string, cfg board.Config, c board.Counter, budget time.Duration) (*EnginePlayer, error) {
	s, err := search.NewSolver(cfg, c)
	if err != nil {
		return nil, err
	}
	return &EnginePlayer{name: name, solver: s, budget: budget}, nil
}

func (p *EnginePlayer) Name() string           { return p.name }
func (p *EnginePlayer) Counter() board.Counter { return p.solver.Counter() }
func (p *EnginePlayer) Solver() *search.Solver { return p.solver }

func (p *EnginePlayer) SetBudget(d time.Duration) { p.budget = d }
func (p *EnginePlayer) Budget() time.Duration     { return p.budget }

func (p *EnginePlayer) MakeMove(ctx context.Context, b *board.Board) (int, error) {
	res, err := p.solver.Solve(ctx, b, p.budget)
	if err != nil {
		return search.NoMove, err
	}
	if res.Column == search.NoMove {
		return search.NoMove, ErrNoPlayableColumn
	}
	p.LastResult = res
	log.Debug().Str("player", p.name).Int("column", res.Column).
		Int("score", res.Score).Int("depth", res.Depth).Msg("engine-move")
	return res.Column, nil
}

// Seeder is implemented by players whose choices can be made
// reproducible from a 32-byte seed.
type Seeder interface {
	Reseed(seed [32]byte)
}

func (p *EnginePlayer) Reseed(seed [32]byte) { p.solver.Reseed(seed[:]) }

// RandomPlayer drops into a uniformly random playable column.
type RandomPlayer struct {
	name    string
	counter board.Counter
	rng     *frand.RNG
}

func NewRandomPlayer(name string, c board.Counter) *RandomPlayer {
	return &RandomPlayer{name: name, counter: c}
}

func (p *RandomPlayer) Name() string           { return p.name }
func (p *RandomPlayer) Counter() board.Counter { return p.counter }

func (p *RandomPlayer) MakeMove(ctx context.Context, b *board.Board) (int, error) {
	cols := b.PlayableColumns()
	if len(cols) == 0 {
		return search.NoMove, ErrNoPlayableColumn
	}
	if p.rng != nil {
		return cols[p.rng.Intn(len(cols))], nil
	}
	return cols[frand.Intn(len(cols))], nil
}

func (p *RandomPlayer) Reseed(seed [32]byte) {
	p.rng = frand.NewCustom(seed[:], 1024, 12)
}

// ScriptedPlayer replays a fixed list of columns. With skipFull set, a
// scripted column that is already full is passed over.
type ScriptedPlayer struct {
	name     string
	counter  board.Counter
	moves    []int
	skipFull bool
	next     int
}

func NewScriptedPlayer(name string, c board.Counter, moves []int, skipFull bool) *ScriptedPlayer {
	return &ScriptedPlayer{name: name, counter: c, moves: moves, skipFull: skipFull}
}

func (p *ScriptedPlayer) Name() string           { return p.name }
func (p *ScriptedPlayer) Counter() board.Counter { return p.counter }

func (p *ScriptedPlayer) MakeMove(ctx context.Context, b *board.Board) (int, error) {
	playable := b.PlayableColumns()
	for p.next < len(p.moves) {
		col := p.moves[p.next]
		p.next++
		if p.skipFull && !lo.Contains(playable, col) {
			continue
		}
		return col, nil
	}
	return search.NoMove, ErrScriptExhausted
}

// Kinds of players that New knows how to build.
const (
	EngineKind = "engine"
	RandomKind = "random"
)

// New builds a named player of the given kind.
func New(kind, name string, cfg board.Config, c board.Counter, budget time.Duration) (Player, error) {
	switch kind {
	case EngineKind:
		return NewEnginePlayer(name, cfg, c, budget)
	case RandomKind:
		return NewRandomPlayer(name, c), nil
	}
	return nil, fmt.Errorf("unknown player kind %q", kind)
}

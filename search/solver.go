// Package search picks moves with a time-bounded, iteratively deepened
// alpha-beta minimax.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/connectn/board"
	"github.com/domino14/connectn/equity"
	"github.com/domino14/connectn/rules"
	"github.com/domino14/connectn/ttable"
	"github.com/domino14/connectn/zobrist"
)

// thanks Wikipedia:
/*
function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            α := max(α, value)
            if value ≥ β then
                break (* β cutoff *)
        return value
    else
        value := +∞
        for each child of node do
            value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
            β := min(β, value)
            if value ≤ α then
                break (* α cutoff *)
        return value
**/

const Infinity = math.MaxInt32

// NoMove is returned when the board has no playable column.
const NoMove = -1

const (
	DefaultMaxDepth      = 100
	DefaultSafetyMargin  = 500 * time.Millisecond
	DefaultTTMemFraction = 0.05
)

var (
	// ErrTimeUp aborts a search in progress. It never escapes Solve.
	ErrTimeUp     = errors.New("search time is up")
	ErrNilBoard   = errors.New("nil board")
	ErrNotStarted = errors.New("solver not initialized")
)

type ColumnScore struct {
	Column int
	Score  int
}

// Result describes the answer of the deepest fully completed pass.
type Result struct {
	Column  int
	Score   int
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
	// Scores of every root column at Depth, in ascending column order.
	Scores []ColumnScore
}

// Solver searches for one side. It is not safe for concurrent use; the
// transposition table it owns persists from one Solve call to the next.
type Solver struct {
	zobrist   *zobrist.Zobrist
	ttable    *ttable.TranspositionTable
	evaluator equity.Evaluator
	clock     Clock

	cfg  board.Config
	self board.Counter

	transpositionTableOptim bool
	ttMemFraction           float64
	maxDepth                int
	safetyMargin            time.Duration

	// per-Solve state
	ctx      context.Context
	deadline time.Time
	useTT    bool
	cells    []byte
	nodes    atomic.Uint64
}

// Init prepares a solver for boards shaped like cfg, searching on behalf
// of self.
func (s *Solver) Init(cfg board.Config, self board.Counter) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if self != board.X && self != board.O {
		return fmt.Errorf("%w: %v", board.ErrInvalidCounter, self)
	}
	s.cfg = cfg
	s.self = self
	s.zobrist = &zobrist.Zobrist{}
	s.zobrist.Initialize(cfg.Width, cfg.Height)
	s.ttMemFraction = DefaultTTMemFraction
	s.ttable = ttable.NewTranspositionTable(s.ttMemFraction)
	s.evaluator = equity.NewPositional(cfg.Width)
	s.clock = RealClock{}
	s.transpositionTableOptim = true
	s.maxDepth = DefaultMaxDepth
	s.safetyMargin = DefaultSafetyMargin
	return nil
}

// NewSolver is a shorthand for Init on a fresh Solver.
func NewSolver(cfg board.Config, self board.Counter) (*Solver, error) {
	s := &Solver{}
	if err := s.Init(cfg, self); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Solver) Counter() board.Counter { return s.self }

func (s *Solver) SetTranspositionTableOptim(tt bool) {
	s.transpositionTableOptim = tt
}

func (s *Solver) SetTranspositionTable(tt *ttable.TranspositionTable) {
	s.ttable = tt
}

func (s *Solver) TranspositionTable() *ttable.TranspositionTable {
	return s.ttable
}

func (s *Solver) SetZobrist(z *zobrist.Zobrist) {
	s.zobrist = z
}

// SetTranspositionTableMemFraction resizes and empties the table. Setting
// the current fraction again keeps the table as it is.
func (s *Solver) SetTranspositionTableMemFraction(f float64) {
	if f == s.ttMemFraction {
		return
	}
	s.ttMemFraction = f
	if s.ttable != nil {
		s.ttable.Reset(f)
	}
}

func (s *Solver) TranspositionTableMemFraction() float64 {
	return s.ttMemFraction
}

// Reseed regenerates the zobrist constants from a 32-byte seed. Stored
// entries were keyed on the old constants, so the table is emptied too.
func (s *Solver) Reseed(seed []byte) {
	s.zobrist.InitializeWithSeed(s.cfg.Width, s.cfg.Height, seed)
	if s.ttable != nil {
		s.ttable.Reset(s.ttMemFraction)
	}
}

func (s *Solver) SetEvaluator(e equity.Evaluator) {
	s.evaluator = e
}

func (s *Solver) SetClock(c Clock) {
	s.clock = c
}

func (s *Solver) SetMaxDepth(d int) {
	if d < 1 {
		d = 1
	}
	s.maxDepth = d
}

func (s *Solver) SetSafetyMargin(m time.Duration) {
	s.safetyMargin = m
}

// SelectMove returns the column to play within the budget, or NoMove if the
// board has no playable column.
func (s *Solver) SelectMove(ctx context.Context, b *board.Board, budget time.Duration) int {
	res, err := s.Solve(ctx, b, budget)
	if err != nil {
		log.Err(err).Msg("select-move-failed")
		return NoMove
	}
	return res.Column
}

// Solve runs the iterative deepening search. Running out of time is not an
// error; the result of the last completed depth is returned instead.
func (s *Solver) Solve(ctx context.Context, b *board.Board, budget time.Duration) (Result, error) {
	if s.zobrist == nil {
		return Result{}, ErrNotStarted
	}
	if b == nil {
		return Result{}, ErrNilBoard
	}
	tstart := s.clock.Now()
	s.ctx = ctx
	s.deadline = tstart.Add(budget - s.safetyMargin)
	s.nodes.Store(0)

	s.useTT = s.transpositionTableOptim && s.ttable != nil
	if s.useTT && !s.zobrist.Fits(b.Config()) {
		log.Warn().Str("board", b.Config().String()).
			Int("zobrist-width", s.zobrist.Width()).
			Int("zobrist-height", s.zobrist.Height()).
			Msg("board-does-not-fit-zobrist-disabling-ttable")
		s.useTT = false
	}
	if rules.IsTerminal(b) {
		log.Warn().Msg("solving-terminal-position")
	}

	playable := b.PlayableColumns()
	if len(playable) == 0 {
		return Result{Column: NoMove}, nil
	}
	plies := min(s.maxDepth, b.Width()*b.Height()-b.NumCounters())

	var res Result
	g := &errgroup.Group{}
	done := make(chan struct{})

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	g.Go(func() error {
		defer close(done)
		res = s.iterativelyDeepen(b, plies)
		return nil
	})

	err := g.Wait()
	if res.Column == NoMove {
		// Not even depth 1 got to score a column.
		res.Column = playable[0]
	}
	res.Nodes = s.nodes.Load()
	res.Elapsed = s.clock.Now().Sub(tstart)

	ev := log.Debug().
		Int("column", res.Column).
		Int("score", res.Score).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Float64("time-elapsed-sec", res.Elapsed.Seconds())
	if s.useTT {
		st := s.ttable.Stats()
		ev = ev.Uint64("ttable-created", st.Created).
			Uint64("ttable-lookups", st.Lookups).
			Uint64("ttable-hits", st.Hits).
			Uint64("ttable-collisions", st.Collisions)
	}
	ev.Msg("solve-returning")
	return res, err
}

func (s *Solver) iterativelyDeepen(b *board.Board, plies int) Result {
	best := Result{Column: NoMove}
	var rootKey uint64
	if s.useTT {
		rootKey = s.zobrist.Hash(b, s.self, false)
	}
	for p := 1; p <= plies; p++ {
		log.Debug().Int("plies", p).Msg("deepening-iteratively")
		scores, err := s.searchRoot(b, rootKey, p)
		if err != nil {
			if p == 1 && len(scores) > 0 {
				// Nothing completed yet, so a partial first pass beats
				// an arbitrary column.
				best = bestOf(scores)
			}
			log.Debug().Err(err).Int("plies", p).Int("completed", p-1).Msg("deepening-aborted")
			break
		}
		best = bestOf(scores)
		best.Depth = p
		log.Debug().Int("score", best.Score).Int("ply", p).Int("column", best.Column).Msg("best-val")
	}
	return best
}

func bestOf(scores []ColumnScore) Result {
	res := Result{Column: NoMove, Score: -Infinity, Scores: scores}
	for _, cs := range scores {
		if cs.Score > res.Score || res.Column == NoMove {
			res.Column = cs.Column
			res.Score = cs.Score
		}
	}
	return res
}

// searchRoot scores every playable column at the given depth. Each column
// gets its own full window. On abort it returns the columns scored so far
// along with the error.
func (s *Solver) searchRoot(b *board.Board, rootKey uint64, depth int) ([]ColumnScore, error) {
	scores := make([]ColumnScore, 0, b.Width())
	for col := 0; col < b.Width(); col++ {
		if !b.IsColumnPlayable(col) {
			continue
		}
		if s.expired() {
			return scores, ErrTimeUp
		}
		child, pos, err := b.PlayMove(col, s.self)
		if err != nil {
			continue
		}
		childKey := rootKey
		if s.useTT {
			childKey = s.zobrist.AddMove(rootKey, pos, true)
		}
		score, err := s.minimax(child, childKey, depth-1, false, -Infinity, Infinity)
		if err != nil {
			return scores, err
		}
		scores = append(scores, ColumnScore{Column: col, Score: score})
	}
	return scores, nil
}

func (s *Solver) expired() bool {
	if s.ctx != nil && s.ctx.Err() != nil {
		return true
	}
	return !s.clock.Now().Before(s.deadline)
}

func (s *Solver) minimax(b *board.Board, nodeKey uint64, depth int, maximizing bool, α, β int) (int, error) {
	s.nodes.Add(1)

	var check uint64
	if s.useTT {
		s.cells = b.AppendRelative(s.cells[:0], s.self)
		s.cells = append(s.cells, moverByte(maximizing))
		check = ttable.Checksum(s.cells)
		ttEntry, ok := s.ttable.Lookup(nodeKey, check)
		if ok && ttEntry.Depth() >= depth {
			score := ttEntry.Score()
			switch ttEntry.Flag() {
			case ttable.TTExact:
				return score, nil
			case ttable.TTLower:
				α = max(α, score)
			case ttable.TTUpper:
				β = min(β, score)
			}
			if α >= β {
				return score, nil
			}
		}
	}

	if s.expired() {
		return 0, ErrTimeUp
	}

	if rules.IsTerminal(b) {
		v := s.evaluator.Evaluate(b, s.self)
		s.store(nodeKey, check, v, ttable.TerminalDepth, ttable.TTExact)
		return v, nil
	}
	if depth == 0 {
		v := s.evaluator.Evaluate(b, s.self)
		s.store(nodeKey, check, v, 0, ttable.TTExact)
		return v, nil
	}

	// the window the children are searched with
	lo, hi := α, β
	mover := s.self
	bestValue := -Infinity
	if !maximizing {
		mover = s.self.Other()
		bestValue = Infinity
	}
	searched := 0
	for col := 0; col < b.Width(); col++ {
		if !b.IsColumnPlayable(col) {
			continue
		}
		child, pos, err := b.PlayMove(col, mover)
		if err != nil {
			continue
		}
		childKey := nodeKey
		if s.useTT {
			childKey = s.zobrist.AddMove(nodeKey, pos, maximizing)
		}
		value, err := s.minimax(child, childKey, depth-1, !maximizing, α, β)
		if err != nil {
			return 0, err
		}
		searched++
		if maximizing {
			bestValue = max(bestValue, value)
			α = max(α, value)
		} else {
			bestValue = min(bestValue, value)
			β = min(β, value)
		}
		if β <= α {
			break
		}
	}
	if searched == 0 {
		// unreachable for a non-terminal board, but never return ±Infinity
		bestValue = s.evaluator.Evaluate(b, s.self)
	}

	var flag uint8
	switch {
	case bestValue <= lo:
		flag = ttable.TTUpper
	case bestValue >= hi:
		flag = ttable.TTLower
	default:
		flag = ttable.TTExact
	}
	s.store(nodeKey, check, bestValue, depth, flag)
	return bestValue, nil
}

// moverByte tags checksummed cells with the side to move, so that equal
// cells reached with different movers never verify against each other.
func moverByte(maximizing bool) byte {
	if maximizing {
		return 1
	}
	return 2
}

func (s *Solver) store(nodeKey, check uint64, score, depth int, flag uint8) {
	if !s.useTT {
		return
	}
	s.ttable.Store(nodeKey, ttable.NewEntry(check, score, depth, flag))
}

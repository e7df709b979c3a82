package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectn/automatic"
	"github.com/domino14/connectn/board"
	"github.com/domino14/connectn/config"
	"github.com/domino14/connectn/equity"
	"github.com/domino14/connectn/player"
	"github.com/domino14/connectn/rules"
)

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usage()), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	cfg := sc.config.BoardConfig()
	if sc.board != nil {
		cfg = sc.board.Config()
	}
	switch len(cmd.args) {
	case 0:
	case 3:
		vals := make([]int, 3)
		for i, a := range cmd.args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		cfg = board.Config{Width: vals[0], Height: vals[1], WinLength: vals[2]}
	default:
		return nil, errors.New("usage: new [width height winlength]")
	}
	b, err := board.NewBoard(cfg)
	if err != nil {
		return nil, err
	}
	sc.setPosition(b, board.X)
	return sc.show(cmd)
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <path/to/fixture.yaml>")
	}
	b, toMove, err := board.LoadFixture(cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.setPosition(b, toMove)
	return sc.show(cmd)
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoGame
	}
	var sb strings.Builder
	sb.WriteString(sc.board.ToDisplayText())
	if sc.winner != board.Empty {
		fmt.Fprintf(&sb, "%v wins\n", sc.winner)
	} else if sc.board.IsFull() {
		sb.WriteString("draw\n")
	} else {
		fmt.Fprintf(&sb, "%v to move\n", sc.toMove)
	}
	return msg(sb.String()), nil
}

// drop plays col for the side to move and reports the new position.
func (sc *ShellController) drop(col int) (*Response, error) {
	if sc.board == nil {
		return nil, errNoGame
	}
	if sc.winner != board.Empty || sc.board.IsFull() {
		return nil, errGameOver
	}
	next, pos, err := sc.board.PlayMove(col, sc.toMove)
	if err != nil {
		return nil, err
	}
	sc.history = append(sc.history, snapshot{board: sc.board, toMove: sc.toMove})
	sc.board = next
	if rules.WinsAt(next, pos) {
		sc.winner = sc.toMove
	}
	sc.toMove = sc.toMove.Other()
	return sc.show(nil)
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <column>")
	}
	col, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	return sc.drop(col)
}

func (sc *ShellController) engineFor(c board.Counter) (*player.EnginePlayer, error) {
	if e, ok := sc.engines[c]; ok {
		return e, nil
	}
	e, err := player.NewEnginePlayer("engine-"+c.String(), sc.board.Config(), c, sc.budget)
	if err != nil {
		return nil, err
	}
	sc.applySettings(e)
	sc.engines[c] = e
	return e, nil
}

func (sc *ShellController) applySettings(e *player.EnginePlayer) {
	e.SetBudget(sc.budget)
	s := e.Solver()
	s.SetMaxDepth(sc.maxDepth)
	s.SetTranspositionTableOptim(sc.useTT)
	s.SetSafetyMargin(sc.config.GetDuration(config.ConfigSafetyMargin))
	s.SetTranspositionTableMemFraction(sc.config.GetFloat64(config.ConfigTTableMemoryFraction))
}

func (sc *ShellController) bot(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoGame
	}
	if sc.winner != board.Empty || sc.board.IsFull() {
		return nil, errGameOver
	}
	e, err := sc.engineFor(sc.toMove)
	if err != nil {
		return nil, err
	}
	budget := sc.budget
	if len(cmd.args) > 0 {
		budget, err = time.ParseDuration(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	e.SetBudget(budget)
	defer e.SetBudget(sc.budget)

	mover := sc.toMove
	col, err := e.MakeMove(sc.ctx, sc.board)
	if err != nil {
		return nil, err
	}
	res := e.LastResult
	resp, err := sc.drop(col)
	if err != nil {
		return nil, err
	}
	header := fmt.Sprintf("%v plays column %d (score %d, depth %d, %d nodes, %.3fs)\n",
		mover, col, res.Score, res.Depth, res.Nodes, res.Elapsed.Seconds())
	return msg(header + resp.String()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	last := sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
	sc.board = last.board
	sc.toMove = last.toMove
	sc.winner = board.Empty
	return sc.show(cmd)
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoGame
	}
	ev := equity.NewPositional(sc.board.Width())
	x := ev.Evaluate(sc.board, board.X)
	return msg(fmt.Sprintf("X: %d\nO: %d", x, ev.Evaluate(sc.board, board.O))), nil
}

func (sc *ShellController) settingsText() string {
	tt := "off"
	if sc.useTT {
		tt = "on"
	}
	return fmt.Sprintf("budget: %v\ndepth: %d\ntt: %s", sc.budget, sc.maxDepth, tt)
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settingsText()), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set [budget|depth|tt] [value]")
	}
	val := cmd.args[1]
	switch cmd.args[0] {
	case "budget":
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, errors.New("budget must be positive")
		}
		sc.budget = d
	case "depth":
		d, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		if d < 1 {
			return nil, errors.New("depth must be at least 1")
		}
		sc.maxDepth = d
	case "tt":
		switch strings.ToLower(val) {
		case "on", "true":
			sc.useTT = true
		case "off", "false":
			sc.useTT = false
		default:
			return nil, fmt.Errorf("tt must be on or off, not %q", val)
		}
	default:
		return nil, fmt.Errorf("unknown setting %q", cmd.args[0])
	}
	for _, e := range sc.engines {
		sc.applySettings(e)
	}
	log.Debug().Str("setting", cmd.args[0]).Str("value", val).Msg("setting-changed")
	return msg(sc.settingsText()), nil
}

func (sc *ShellController) selfplay(cmd *shellcmd) (*Response, error) {
	n := sc.config.GetInt(config.ConfigSelfplayGames)
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	if n < 1 {
		return nil, errors.New("need at least one game")
	}
	bc := sc.config.BoardConfig()
	if sc.board != nil {
		bc = sc.board.Config()
	}
	opts, err := SelfplayOptions(sc.config, bc, sc.budget, sc.maxDepth, sc.useTT)
	if err != nil {
		return nil, err
	}
	opts.NumGames = n
	if _, err := automatic.PlayGames(sc.ctx, opts); err != nil {
		return nil, err
	}
	out, err := automatic.AnalyzeLogFile(opts.Logfile)
	if err != nil {
		return nil, err
	}
	return msg(out), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	path := sc.config.GetString(config.ConfigSelfplayLogfile)
	if len(cmd.args) > 0 {
		path = cmd.args[0]
	}
	out, err := automatic.AnalyzeLogFile(path)
	if err != nil {
		return nil, err
	}
	return msg(out), nil
}

// SelfplayOptions builds self-play options from the configuration. The
// engine always plays X; its opponent is another engine or a random mover.
// If seeds are to be generated, the seed file is written first.
func SelfplayOptions(cfg *config.Config, bc board.Config, budget time.Duration,
	maxDepth int, useTT bool) (automatic.Options, error) {

	opponent := cfg.GetString(config.ConfigSelfplayOpponent)
	if opponent != player.EngineKind && opponent != player.RandomKind {
		return automatic.Options{}, fmt.Errorf("unknown self-play opponent %q", opponent)
	}
	opts := automatic.Options{
		Config:   bc,
		NumGames: cfg.GetInt(config.ConfigSelfplayGames),
		Threads:  cfg.GetInt(config.ConfigSelfplayThreads),
		Logfile:  cfg.GetString(config.ConfigSelfplayLogfile),
	}
	path := cfg.GetString(config.ConfigSelfplaySeedFile)
	if n := cfg.GetInt(config.ConfigSelfplayGenSeeds); n > 0 {
		if path == "" {
			return automatic.Options{}, fmt.Errorf("%s needs %s", config.ConfigSelfplayGenSeeds,
				config.ConfigSelfplaySeedFile)
		}
		if err := automatic.SaveSeeds(automatic.GenerateSeeds(n), path); err != nil {
			return automatic.Options{}, err
		}
		log.Info().Int("seeds", n).Str("path", path).Msg("generated-seed-file")
	}
	if path != "" {
		seeds, err := automatic.LoadSeeds(path)
		if err != nil {
			return automatic.Options{}, err
		}
		opts.Seeds = seeds
	}
	configure := func(p player.Player) {
		e, ok := p.(*player.EnginePlayer)
		if !ok {
			return
		}
		s := e.Solver()
		s.SetMaxDepth(maxDepth)
		s.SetTranspositionTableOptim(useTT)
		s.SetSafetyMargin(cfg.GetDuration(config.ConfigSafetyMargin))
		s.SetTranspositionTableMemFraction(cfg.GetFloat64(config.ConfigTTableMemoryFraction))
	}
	opts.NewPlayers = func() (player.Player, player.Player, error) {
		p1, err := player.New(player.EngineKind, "engine", bc, board.X, budget)
		if err != nil {
			return nil, nil, err
		}
		p2, err := player.New(opponent, opponent+"-2", bc, board.O, budget)
		if err != nil {
			return nil, nil, err
		}
		configure(p1)
		configure(p2)
		return p1, p2, nil
	}
	return opts, nil
}

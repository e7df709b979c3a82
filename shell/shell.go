// Package shell is an interactive front end for playing against, and
// poking at, the engine.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectn/board"
	"github.com/domino14/connectn/config"
	"github.com/domino14/connectn/player"
	"github.com/domino14/connectn/rules"
)

var (
	errNoGame   = errors.New("no game in progress, use new or load")
	errGameOver = errors.New("the game is over, use new, load or undo")
	errExit     = errors.New("exit")
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config
	out    io.Writer

	ctx    context.Context
	cancel context.CancelFunc

	board   *board.Board
	toMove  board.Counter
	history []snapshot
	winner  board.Counter

	engines  map[board.Counter]*player.EnginePlayer
	budget   time.Duration
	maxDepth int
	useTT    bool
}

type snapshot struct {
	board  *board.Board
	toMove board.Counter
}

type shellcmd struct {
	cmd  string
	args []string
}

type Response struct {
	message string
}

func (r *Response) String() string {
	if r == nil {
		return ""
	}
	return r.message
}

func msg(message string) *Response {
	return &Response{message: message}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController builds a controller writing to out. It starts with a
// fresh board of the configured size.
func NewShellController(cfg *config.Config, out io.Writer) *ShellController {
	ctx, cancel := context.WithCancel(context.Background())
	sc := &ShellController{
		config:   cfg,
		out:      out,
		ctx:      ctx,
		cancel:   cancel,
		engines:  map[board.Counter]*player.EnginePlayer{},
		budget:   cfg.GetDuration(config.ConfigTimeBudget),
		maxDepth: cfg.GetInt(config.ConfigMaxDepth),
		useTT:    cfg.GetBool(config.ConfigTranspositionTable),
	}
	if b, err := board.NewBoard(cfg.BoardConfig()); err == nil {
		sc.setPosition(b, board.X)
	} else {
		log.Err(err).Msg("bad-board-config")
	}
	return sc
}

func (sc *ShellController) initReadline() error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mconnectn>\033[0m ",
		HistoryFile:     "/tmp/connectn-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	sc.l = l
	sc.out = l.Stdout()
	return nil
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) setPosition(b *board.Board, toMove board.Counter) {
	if sc.board == nil || sc.board.Config() != b.Config() {
		// solvers are sized to the board
		sc.engines = map[board.Counter]*player.EnginePlayer{}
	}
	sc.board = b
	sc.toMove = toMove
	sc.history = nil
	sc.winner = board.Empty
	if w, ok := rules.Winner(b); ok {
		sc.winner = w
	}
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return &shellcmd{cmd: strings.ToLower(fields[0]), args: fields[1:]}, nil
}

// Execute runs one command line.
func (sc *ShellController) Execute(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, nil
	}
	switch cmd.cmd {
	case "exit", "bye", "quit":
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "show":
		return sc.show(cmd)
	case "play":
		return sc.play(cmd)
	case "bot":
		return sc.bot(cmd)
	case "undo":
		return sc.undo(cmd)
	case "eval":
		return sc.eval(cmd)
	case "set":
		return sc.set(cmd)
	case "selfplay":
		return sc.selfplay(cmd)
	case "analyze":
		return sc.analyze(cmd)
	}
	log.Debug().Str("line", line).Msg("unknown-command")
	return nil, fmt.Errorf("unknown command %q, try help", cmd.cmd)
}

// Loop reads commands until exit or end of input, then signals sig.
func (sc *ShellController) Loop(sig chan os.Signal) {
	if err := sc.initReadline(); err != nil {
		log.Err(err).Msg("readline-init")
		sig <- syscall.SIGINT
		return
	}
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.Execute(strings.TrimSpace(line))
		if errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil {
			sc.showMessage(resp.String())
		}
	}
	log.Debug().Msg("exiting-readline-loop")
}

// Cleanup stops anything still running.
func (sc *ShellController) Cleanup() {
	sc.cancel()
}

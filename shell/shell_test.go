package shell

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/connectn/automatic"
	"github.com/domino14/connectn/config"
	"github.com/domino14/connectn/player"
)

func newTestController(is *is.I) *ShellController {
	cfg := config.DefaultConfig()
	is.NoErr(cfg.Load(nil))
	return NewShellController(cfg, &bytes.Buffer{})
}

func run(is *is.I, sc *ShellController, line string) string {
	resp, err := sc.Execute(line)
	is.NoErr(err)
	return resp.String()
}

func TestPlayAndUndo(t *testing.T) {
	is := is.New(t)
	sc := newTestController(is)
	out := run(is, sc, "new 7 6 4")
	is.True(strings.Contains(out, "X to move"))

	out = run(is, sc, "play 3")
	is.True(strings.Contains(out, "O to move"))
	is.Equal(sc.board.NumCounters(), 1)

	out = run(is, sc, "undo")
	is.True(strings.Contains(out, "X to move"))
	is.Equal(sc.board.NumCounters(), 0)

	_, err := sc.Execute("undo")
	is.True(err != nil)
	_, err = sc.Execute("play 7")
	is.True(err != nil)
	_, err = sc.Execute("play x")
	is.True(err != nil)
}

func TestBotTakesWinAndGameEnds(t *testing.T) {
	is := is.New(t)
	sc := newTestController(is)
	run(is, sc, "load "+filepath.Join("testdata", "win.yaml"))
	run(is, sc, "set depth 2")
	out := run(is, sc, "bot 5s")
	is.True(strings.Contains(out, "X plays column 3"))
	is.True(strings.Contains(out, "X wins"))

	_, err := sc.Execute("play 0")
	is.Equal(err, errGameOver)
	_, err = sc.Execute("bot")
	is.Equal(err, errGameOver)

	out = run(is, sc, "undo")
	is.True(strings.Contains(out, "X to move"))
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc := newTestController(is)
	out := run(is, sc, "set")
	is.True(strings.Contains(out, "tt: on"))

	out = run(is, sc, "set tt off")
	is.True(strings.Contains(out, "tt: off"))
	out = run(is, sc, "set budget 250ms")
	is.True(strings.Contains(out, "budget: 250ms"))
	out = run(is, sc, "set depth 6")
	is.True(strings.Contains(out, "depth: 6"))

	for _, bad := range []string{"set tt maybe", "set depth 0", "set budget -1s", "set colour red", "set depth"} {
		_, err := sc.Execute(bad)
		is.True(err != nil)
	}
}

func TestSettingsReachExistingEngines(t *testing.T) {
	is := is.New(t)
	sc := newTestController(is)
	run(is, sc, "new 5 4 3")
	e, err := sc.engineFor(sc.toMove)
	is.NoErr(err)
	run(is, sc, "set budget 3s")
	is.Equal(e.Budget().String(), "3s")

	// a new board size needs new engines
	run(is, sc, "new 6 5 4")
	is.Equal(len(sc.engines), 0)
}

func TestEnginesUseConfiguredTableFraction(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	is.NoErr(cfg.Load([]string{"--ttable-mem-fraction", "0.01"}))
	sc := NewShellController(cfg, &bytes.Buffer{})
	run(is, sc, "new 5 4 3")
	e, err := sc.engineFor(sc.toMove)
	is.NoErr(err)
	is.Equal(e.Solver().TranspositionTableMemFraction(), 0.01)

	opts, err := SelfplayOptions(cfg, sc.board.Config(), sc.budget, sc.maxDepth, sc.useTT)
	is.NoErr(err)
	p1, _, err := opts.NewPlayers()
	is.NoErr(err)
	is.Equal(p1.(*player.EnginePlayer).Solver().TranspositionTableMemFraction(), 0.01)
}

func TestSelfplayGeneratesSeedFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	cfg := config.DefaultConfig()
	is.NoErr(cfg.Load([]string{"--selfplay-gen-seeds", "3", "--selfplay-seed-file", path}))
	opts, err := SelfplayOptions(cfg, cfg.BoardConfig(), time.Second, 2, true)
	is.NoErr(err)
	is.Equal(len(opts.Seeds), 3)

	saved, err := automatic.LoadSeeds(path)
	is.NoErr(err)
	is.Equal(saved, opts.Seeds)

	cfg = config.DefaultConfig()
	is.NoErr(cfg.Load([]string{"--selfplay-gen-seeds", "3"}))
	_, err = SelfplayOptions(cfg, cfg.BoardConfig(), time.Second, 2, true)
	is.True(err != nil)
}

func TestEvalAndHelp(t *testing.T) {
	is := is.New(t)
	sc := newTestController(is)
	run(is, sc, "new")
	run(is, sc, "play 4")
	out := run(is, sc, "eval")
	is.True(strings.Contains(out, "X: 4"))
	is.True(strings.Contains(out, "O: -4"))

	is.True(strings.Contains(run(is, sc, "help"), "selfplay <n>"))
	is.True(strings.Contains(run(is, sc, "help set"), "set depth"))
	is.True(strings.Contains(run(is, sc, "help nonsense"), "no help text"))
}

func TestShellQuotingAndUnknown(t *testing.T) {
	is := is.New(t)
	sc := newTestController(is)
	_, err := sc.Execute(`load "unterminated`)
	is.True(err != nil)
	_, err = sc.Execute("frobnicate")
	is.True(err != nil)
	_, err = sc.Execute("exit")
	is.Equal(err, errExit)
	resp, err := sc.Execute("   ")
	is.NoErr(err)
	is.Equal(resp.String(), "")
}

func TestSelfplay(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	logfile := filepath.Join(t.TempDir(), "games.csv")
	is.NoErr(cfg.Load([]string{"--selfplay-logfile", logfile, "--selfplay-opponent", "random",
		"--selfplay-threads", "2", "--max-depth", "2", "--time-budget", "5s"}))
	sc := NewShellController(cfg, &bytes.Buffer{})
	run(is, sc, "new 5 4 4")
	out := run(is, sc, "selfplay 4")
	is.True(strings.Contains(out, "Games played: 4"))

	out = run(is, sc, "analyze "+logfile)
	is.True(strings.Contains(out, "Games played: 4"))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter()
	got, n := c.Do([]rune("se"), 2)
	is.Equal(n, 2)
	is.Equal(len(got), 2) // set, selfplay

	got, n = c.Do([]rune("set t"), 5)
	is.Equal(n, 1)
	is.Equal(got, [][]rune{[]rune("t ")})

	got, _ = c.Do([]rune("set tt "), 7)
	is.Equal(len(got), 2)
}

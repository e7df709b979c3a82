package rules

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/connectn/board"
)

func dropAll(is *is.I, b *board.Board, c board.Counter, cols ...int) *board.Board {
	var err error
	for _, col := range cols {
		b, _, err = b.PlayMove(col, c)
		is.NoErr(err)
	}
	return b
}

func TestIsTerminalVerticalStack(t *testing.T) {
	is := is.New(t)
	b, err := board.NewBoard(board.DefaultConfig())
	is.NoErr(err)
	b = dropAll(is, b, board.X, 0, 0, 0)
	is.True(!IsTerminal(b))
	b = dropAll(is, b, board.X, 0)
	is.True(IsTerminal(b))
	w, ok := Winner(b)
	is.True(ok)
	is.Equal(w, board.X)
}

func TestDiagonals(t *testing.T) {
	is := is.New(t)
	cfg := board.Config{Width: 5, Height: 4, WinLength: 4}
	up, err := board.FromRows(cfg, []string{
		"...X.",
		"..XO.",
		".XOO.",
		"XOOO.",
	})
	is.NoErr(err)
	w, ok := Winner(up)
	is.True(ok)
	is.Equal(w, board.X)

	down, err := board.FromRows(cfg, []string{
		".O...",
		".XO..",
		".XXO.",
		".XXXO",
	})
	is.NoErr(err)
	w, ok = Winner(down)
	is.True(ok)
	is.Equal(w, board.O)
	is.True(WinsAt(down, board.Position{X: 2, Y: 2}))
	is.True(!WinsAt(down, board.Position{X: 1, Y: 0}))
}

func TestWinLengthIsConfigured(t *testing.T) {
	is := is.New(t)
	cfg := board.Config{Width: 6, Height: 3, WinLength: 5}
	b, err := board.FromRows(cfg, []string{
		"......",
		"OOOO..",
		"XXXX..",
	})
	is.NoErr(err)
	is.True(!IsTerminal(b))
	b = dropAll(is, b, board.X, 4)
	is.True(IsTerminal(b))
	is.True(WinsAt(b, board.Position{X: 4, Y: 0}))

	three := board.Config{Width: 3, Height: 3, WinLength: 3}
	b, err = board.FromRows(three, []string{
		"...",
		"...",
		"XX.",
	})
	is.NoErr(err)
	is.True(!IsTerminal(b))
	b = dropAll(is, b, board.X, 2)
	is.True(IsTerminal(b))
}

func TestFullBoardIsDraw(t *testing.T) {
	is := is.New(t)
	cfg := board.Config{Width: 4, Height: 2, WinLength: 3}
	b, err := board.FromRows(cfg, []string{
		"OXOX",
		"XOXO",
	})
	is.NoErr(err)
	_, won := Winner(b)
	is.True(!won)
	is.True(IsTerminal(b))
}

func TestFewerThanWinLengthPiecesNeverTerminal(t *testing.T) {
	is := is.New(t)
	b, err := board.NewBoard(board.DefaultConfig())
	is.NoErr(err)
	is.True(!IsTerminal(b))
	c := board.X
	for i := 0; i < 3; i++ {
		b, _, err = b.PlayMove(i, c)
		is.NoErr(err)
		is.True(!IsTerminal(b))
		c = c.Other()
	}
}

package board

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestPlayMoveDoesNotMutate(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(DefaultConfig())
	is.NoErr(err)

	b1, pos, err := b.PlayMove(3, X)
	is.NoErr(err)
	is.Equal(pos, Position{3, 0})
	is.Equal(b.NumCounters(), 0)
	is.Equal(b.CounterAt(Position{3, 0}), Empty)
	is.Equal(b1.CounterAt(Position{3, 0}), X)

	b2, pos, err := b1.PlayMove(3, O)
	is.NoErr(err)
	is.Equal(pos, Position{3, 1})
	is.Equal(b1.NumCounters(), 1)
	is.Equal(b2.NumCounters(), 2)
	is.Equal(b2.CounterAt(Position{3, 1}), O)
}

func TestColumnFull(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(Config{Width: 3, Height: 2, WinLength: 2})
	is.NoErr(err)
	b, _, err = b.PlayMove(1, X)
	is.NoErr(err)
	b, _, err = b.PlayMove(1, O)
	is.NoErr(err)

	is.True(!b.IsColumnPlayable(1))
	is.Equal(b.PlayableColumns(), []int{0, 2})

	_, _, err = b.PlayMove(1, X)
	is.True(errors.Is(err, ErrColumnFull))
	_, _, err = b.PlayMove(3, X)
	is.True(errors.Is(err, ErrColumnOutOfRange))
	_, _, err = b.PlayMove(-1, X)
	is.True(errors.Is(err, ErrColumnOutOfRange))
	_, _, err = b.PlayMove(0, Empty)
	is.True(errors.Is(err, ErrInvalidCounter))
}

func TestConfigValidate(t *testing.T) {
	is := is.New(t)
	is.NoErr(DefaultConfig().Validate())
	is.NoErr(Config{Width: 1, Height: 4, WinLength: 4}.Validate())
	is.True(errors.Is(Config{Width: 0, Height: 4, WinLength: 2}.Validate(), ErrInvalidConfig))
	is.True(errors.Is(Config{Width: 4, Height: 4, WinLength: 1}.Validate(), ErrInvalidConfig))
	is.True(errors.Is(Config{Width: 3, Height: 3, WinLength: 4}.Validate(), ErrInvalidConfig))
	is.True(errors.Is(Config{Width: 65, Height: 3, WinLength: 2}.Validate(), ErrInvalidConfig))
}

func TestFromRows(t *testing.T) {
	is := is.New(t)
	cfg := Config{Width: 4, Height: 3, WinLength: 3}
	b, err := FromRows(cfg, []string{
		"....",
		".O..",
		"XX.O",
	})
	is.NoErr(err)
	is.Equal(b.NumCounters(), 4)
	is.Equal(b.CounterAt(Position{1, 1}), O)
	is.Equal(b.CounterAt(Position{3, 0}), O)
	is.Equal(b.ToDisplayText(), ". . . .\n. O . .\nX X . O\n0 1 2 3\n")

	// Dropping into column 1 lands on top of the O.
	_, pos, err := b.PlayMove(1, X)
	is.NoErr(err)
	is.Equal(pos, Position{1, 2})

	_, err = FromRows(cfg, []string{"....", ".X..", "...."})
	is.True(errors.Is(err, ErrInvalidConfig))
	_, err = FromRows(cfg, []string{"....", "...."})
	is.True(errors.Is(err, ErrInvalidConfig))
	_, err = FromRows(cfg, []string{"....", "....", "..Z."})
	is.True(errors.Is(err, ErrInvalidCounter))
}

func TestLoadFixture(t *testing.T) {
	is := is.New(t)
	b, toMove, err := LoadFixture("testdata/blocked.yaml")
	is.NoErr(err)
	is.Equal(toMove, X)
	is.Equal(b.Config(), Config{Width: 7, Height: 6, WinLength: 4})
	is.Equal(b.NumCounters(), 4)
	is.Equal(b.CounterAt(Position{3, 1}), O)
}

func TestParseFixtureDefaults(t *testing.T) {
	is := is.New(t)
	b, toMove, err := ParseFixture([]byte("to_move: O\n"))
	is.NoErr(err)
	is.Equal(toMove, O)
	is.Equal(b.Config(), DefaultConfig())
	is.Equal(b.NumCounters(), 0)
}

func TestAppendRelative(t *testing.T) {
	is := is.New(t)
	b, err := FromRows(Config{Width: 2, Height: 2, WinLength: 2}, []string{
		"O.",
		"XO",
	})
	is.NoErr(err)
	// column-major, bottom first
	is.Equal(b.AppendRelative(nil, X), []byte{1, 2, 2, 0})
	is.Equal(b.AppendRelative(nil, O), []byte{2, 1, 1, 0})
}

func BenchmarkPlayMove(b *testing.B) {
	bd, _ := NewBoard(DefaultConfig())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bd.PlayMove(i%bd.Width(), X)
	}
}

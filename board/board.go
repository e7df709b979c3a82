// Package board holds the state of a gravity-drop connection game: a grid of
// columns into which counters are dropped, each falling to the lowest empty
// cell. A Board never changes after construction; playing a move derives a
// new Board, so search branches can never alias each other's state.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// A Counter is the occupant of a single cell.
type Counter uint8

const (
	Empty Counter = iota
	X
	O
)

// Other returns the opposing counter. Empty has no opponent.
func (c Counter) Other() Counter {
	switch c {
	case X:
		return O
	case O:
		return X
	}
	return Empty
}

func (c Counter) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	}
	return "."
}

// CounterFromString parses "X" or "O" (case-insensitive).
func CounterFromString(s string) (Counter, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrInvalidCounter, s)
}

const MaxDim = 64

var (
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrColumnFull       = errors.New("column is full")
	ErrInvalidCounter   = errors.New("invalid counter")
	ErrInvalidConfig    = errors.New("invalid board configuration")
)

// Config describes the shape of a game.
type Config struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	WinLength int `yaml:"win_length"`
}

// DefaultConfig is the 10x8 connect-four board the engine was first tuned on.
func DefaultConfig() Config {
	return Config{Width: 10, Height: 8, WinLength: 4}
}

func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Width > MaxDim || c.Height > MaxDim:
		return fmt.Errorf("%w: dimensions %dx%d exceed %d", ErrInvalidConfig, c.Width, c.Height, MaxDim)
	case c.WinLength < 2:
		return fmt.Errorf("%w: win length %d", ErrInvalidConfig, c.WinLength)
	case c.WinLength > max(c.Width, c.Height):
		// a win would be impossible, and a full board could then hold fewer
		// counters than one winning run.
		return fmt.Errorf("%w: win length %d does not fit %dx%d", ErrInvalidConfig,
			c.WinLength, c.Width, c.Height)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("%dx%d/%d", c.Width, c.Height, c.WinLength)
}

// Position is a cell coordinate. Y = 0 is the bottom row.
type Position struct {
	X, Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Board cells are stored column-major so a column's cells are contiguous.
type Board struct {
	cfg     Config
	cells   []Counter
	heights []int
	count   int
}

// NewBoard returns an empty board.
func NewBoard(cfg Config) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Board{
		cfg:     cfg,
		cells:   make([]Counter, cfg.Width*cfg.Height),
		heights: make([]int, cfg.Width),
	}, nil
}

func (b *Board) Config() Config { return b.cfg }
func (b *Board) Width() int     { return b.cfg.Width }
func (b *Board) Height() int    { return b.cfg.Height }
func (b *Board) WinLength() int { return b.cfg.WinLength }

// NumCounters is the number of occupied cells.
func (b *Board) NumCounters() int { return b.count }

func (b *Board) IsWithinBoard(p Position) bool {
	return p.X >= 0 && p.X < b.cfg.Width && p.Y >= 0 && p.Y < b.cfg.Height
}

// CounterAt returns Empty for positions off the board.
func (b *Board) CounterAt(p Position) Counter {
	if !b.IsWithinBoard(p) {
		return Empty
	}
	return b.cells[p.X*b.cfg.Height+p.Y]
}

func (b *Board) HasCounterAt(p Position) bool {
	return b.CounterAt(p) != Empty
}

// IsColumnPlayable is true iff the column exists and its topmost cell is empty.
func (b *Board) IsColumnPlayable(col int) bool {
	return col >= 0 && col < b.cfg.Width && b.heights[col] < b.cfg.Height
}

// PlayableColumns lists playable columns in ascending order.
func (b *Board) PlayableColumns() []int {
	cols := make([]int, 0, b.cfg.Width)
	for c := 0; c < b.cfg.Width; c++ {
		if b.IsColumnPlayable(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

func (b *Board) IsFull() bool {
	return b.count == len(b.cells)
}

// PlayMove drops a counter into col and returns the resulting board along
// with the cell where the counter landed. The receiver is not modified.
func (b *Board) PlayMove(col int, c Counter) (*Board, Position, error) {
	if c != X && c != O {
		return nil, Position{}, fmt.Errorf("%w: %d", ErrInvalidCounter, c)
	}
	if col < 0 || col >= b.cfg.Width {
		return nil, Position{}, fmt.Errorf("%w: %d (width %d)", ErrColumnOutOfRange, col, b.cfg.Width)
	}
	if b.heights[col] >= b.cfg.Height {
		return nil, Position{}, fmt.Errorf("%w: %d", ErrColumnFull, col)
	}
	nb := b.Copy()
	pos := Position{X: col, Y: nb.heights[col]}
	nb.cells[col*b.cfg.Height+pos.Y] = c
	nb.heights[col]++
	nb.count++
	return nb, pos, nil
}

// Copy returns a deep copy.
func (b *Board) Copy() *Board {
	nb := &Board{
		cfg:     b.cfg,
		cells:   make([]Counter, len(b.cells)),
		heights: make([]int, len(b.heights)),
		count:   b.count,
	}
	copy(nb.cells, b.cells)
	copy(nb.heights, b.heights)
	return nb
}

// AppendRelative appends one byte per cell to dst: 0 for empty, 1 for
// cells owned by self and 2 for the opponent's.
func (b *Board) AppendRelative(dst []byte, self Counter) []byte {
	for _, c := range b.cells {
		switch {
		case c == Empty:
			dst = append(dst, 0)
		case c == self:
			dst = append(dst, 1)
		default:
			dst = append(dst, 2)
		}
	}
	return dst
}

// Equals compares cell contents and shape.
func (b *Board) Equals(o *Board) bool {
	if b.cfg != o.cfg || b.count != o.count {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// ToDisplayText renders the board top row first, with column indices below.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	for y := b.cfg.Height - 1; y >= 0; y-- {
		for x := 0; x < b.cfg.Width; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b.CounterAt(Position{x, y}).String())
		}
		sb.WriteByte('\n')
	}
	for x := 0; x < b.cfg.Width; x++ {
		if x > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%d", x%10))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func (b *Board) String() string {
	return b.ToDisplayText()
}

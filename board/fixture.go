package board

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromRows builds a board from text rows, top row first. Each row has one
// character per column: '.' for empty, 'X' or 'O'. Spaces are ignored.
// Floating counters (an occupied cell above an empty one) are rejected.
func FromRows(cfg Config, rows []string) (*Board, error) {
	b, err := NewBoard(cfg)
	if err != nil {
		return nil, err
	}
	if len(rows) != cfg.Height {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrInvalidConfig, len(rows), cfg.Height)
	}
	for i, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		if len(row) != cfg.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidConfig, i, len(row), cfg.Width)
		}
		y := cfg.Height - 1 - i
		for x, ch := range row {
			var c Counter
			switch ch {
			case '.':
				continue
			case 'X', 'x':
				c = X
			case 'O', 'o':
				c = O
			default:
				return nil, fmt.Errorf("%w: %q at row %d", ErrInvalidCounter, ch, i)
			}
			b.cells[x*cfg.Height+y] = c
			b.count++
		}
	}
	for x := 0; x < cfg.Width; x++ {
		h := 0
		for h < cfg.Height && b.cells[x*cfg.Height+h] != Empty {
			h++
		}
		for y := h; y < cfg.Height; y++ {
			if b.cells[x*cfg.Height+y] != Empty {
				return nil, fmt.Errorf("%w: floating counter at %v", ErrInvalidConfig, Position{x, y})
			}
		}
		b.heights[x] = h
	}
	return b, nil
}

// Fixture is a position stored on disk.
type Fixture struct {
	Config `yaml:",inline"`
	Rows   []string `yaml:"rows"`
	ToMove string   `yaml:"to_move"`
}

// ParseFixture decodes a YAML fixture and builds its board. If the fixture
// has no rows, the board is empty. A missing to_move defaults to X.
func ParseFixture(data []byte) (*Board, Counter, error) {
	f := Fixture{Config: DefaultConfig()}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, Empty, fmt.Errorf("parsing fixture: %w", err)
	}
	var b *Board
	var err error
	if len(f.Rows) == 0 {
		b, err = NewBoard(f.Config)
	} else {
		b, err = FromRows(f.Config, f.Rows)
	}
	if err != nil {
		return nil, Empty, err
	}
	toMove := X
	if f.ToMove != "" {
		toMove, err = CounterFromString(f.ToMove)
		if err != nil {
			return nil, Empty, err
		}
	}
	return b, toMove, nil
}

func LoadFixture(path string) (*Board, Counter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Empty, err
	}
	return ParseFixture(data)
}

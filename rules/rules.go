// Package rules decides whether a position is over.
package rules

import "github.com/domino14/connectn/board"

// Directions lists the four axes a run can lie on: horizontal, vertical and
// both diagonals.
var Directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Winner returns the owner of any run of the board's win length.
func Winner(b *board.Board) (board.Counter, bool) {
	for x := 0; x < b.Width(); x++ {
		for y := 0; y < b.Height(); y++ {
			p := board.Position{X: x, Y: y}
			c := b.CounterAt(p)
			if c == board.Empty {
				continue
			}
			for _, d := range Directions {
				if checkDirection(b, p, c, d[0], d[1]) {
					return c, true
				}
			}
		}
	}
	return board.Empty, false
}

// checkDirection reports whether pos anchors WinLength consecutive counters
// of c along (dx, dy).
func checkDirection(b *board.Board, pos board.Position, c board.Counter, dx, dy int) bool {
	n := b.WinLength()
	for i := 0; i < n; i++ {
		p := board.Position{X: pos.X + i*dx, Y: pos.Y + i*dy}
		if !b.IsWithinBoard(p) || b.CounterAt(p) != c {
			return false
		}
	}
	return true
}

// WinsAt reports whether the counter on pos is part of a winning run. It only
// looks at lines through pos, so the game loop can call it after every drop.
func WinsAt(b *board.Board, pos board.Position) bool {
	c := b.CounterAt(pos)
	if c == board.Empty {
		return false
	}
	for _, d := range Directions {
		run := 1 + countFrom(b, pos, c, d[0], d[1]) + countFrom(b, pos, c, -d[0], -d[1])
		if run >= b.WinLength() {
			return true
		}
	}
	return false
}

func countFrom(b *board.Board, pos board.Position, c board.Counter, dx, dy int) int {
	n := 0
	for {
		pos = board.Position{X: pos.X + dx, Y: pos.Y + dy}
		if !b.IsWithinBoard(pos) || b.CounterAt(pos) != c {
			return n
		}
		n++
	}
}

// IsTerminal is true if someone has won or no column can be played.
func IsTerminal(b *board.Board) bool {
	if b.NumCounters() < b.WinLength() {
		// no run is possible, and Validate guarantees the board holds at
		// least WinLength cells.
		return false
	}
	if _, won := Winner(b); won {
		return true
	}
	return b.IsFull()
}

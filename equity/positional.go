package equity

import (
	"github.com/domino14/connectn/board"
	"github.com/domino14/connectn/rules"
)

// Run scores for ScoreDirection.
const (
	WinningRunScore   = 1000
	OpenRunScore      = 400
	BridgedPairScore  = 350
	BridgedOneScore   = 100
	OpenPairScore     = 30
	HalfOpenPairScore = 8
)

// ColumnWeights returns a centrality weight per column, symmetric about the
// middle: 0 at the edges and growing by one per column towards the centre.
func ColumnWeights(width int) []int {
	w := make([]int, width)
	for c := range w {
		w[c] = min(c, width-1-c)
	}
	return w
}

// Positional scores every occupied cell by the runs it anchors plus a
// bonus for central columns.
type Positional struct {
	columnWeights []int
}

// NewPositional returns an evaluator whose centrality table is sized for
// boards of the given width.
func NewPositional(width int) *Positional {
	return &Positional{columnWeights: ColumnWeights(width)}
}

// PositionWeight is the centrality bonus for a column. Boards of a width the
// table was not built for get no bonus at all.
func (p *Positional) PositionWeight(col, boardWidth int) int {
	if boardWidth != len(p.columnWeights) || col < 0 || col >= boardWidth {
		return 0
	}
	return p.columnWeights[col]
}

func (p *Positional) Evaluate(b *board.Board, self board.Counter) int {
	score := 0
	for x := 0; x < b.Width(); x++ {
		for y := 0; y < b.Height(); y++ {
			pos := board.Position{X: x, Y: y}
			c := b.CounterAt(pos)
			if c == board.Empty {
				continue
			}
			v := evaluatePosition(b, pos, c) + p.PositionWeight(x, b.Width())
			if c == self {
				score += v
			} else {
				score -= v
			}
		}
	}
	return score
}

func evaluatePosition(b *board.Board, pos board.Position, c board.Counter) int {
	score := 0
	for _, d := range rules.Directions {
		score += ScoreDirection(b, pos, c, d[0], d[1])
	}
	return score
}

// ScoreDirection scores the run of owner's counters that starts at pos and
// extends along (dx, dy), for at most the board's win length. An empty cell
// directly behind pos and an empty cell stopping the run each count as an
// open end. When both ends are open and the cell beyond the stopping
// one belongs to owner again, the run is bridged across a single gap.
func ScoreDirection(b *board.Board, pos board.Position, owner board.Counter, dx, dy int) int {
	n := b.WinLength()
	count, openEnds, gaps := 0, 0, 0

	prev := board.Position{X: pos.X - dx, Y: pos.Y - dy}
	if b.IsWithinBoard(prev) && !b.HasCounterAt(prev) {
		openEnds++
	}

	for i := 0; i < n; i++ {
		p := board.Position{X: pos.X + i*dx, Y: pos.Y + i*dy}
		if !b.IsWithinBoard(p) {
			break
		}
		c := b.CounterAt(p)
		if c == owner {
			count++
			continue
		}
		if c == board.Empty {
			openEnds++
			next := board.Position{X: p.X + dx, Y: p.Y + dy}
			if count > 0 && openEnds == 2 && b.IsWithinBoard(next) && b.CounterAt(next) == owner {
				gaps++
			}
		}
		break
	}

	switch {
	case count >= n:
		return WinningRunScore
	case count == n-1 && openEnds > 0:
		return OpenRunScore
	case count == 2 && gaps == 1:
		return BridgedPairScore
	case count == 1 && gaps == 1:
		return BridgedOneScore
	case count == 2 && openEnds == 2:
		return OpenPairScore
	case count == 2 && openEnds == 1:
		return HalfOpenPairScore
	}
	return 0
}

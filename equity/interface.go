// Package equity scores positions that the search does not expand further.
package equity

import "github.com/domino14/connectn/board"

// Evaluator is a static evaluator. Positive values favour self. For a
// fixed board, Evaluate(b, c) must equal -Evaluate(b, c.Other()).
type Evaluator interface {
	Evaluate(b *board.Board, self board.Counter) int
}

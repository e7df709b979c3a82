package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/connectn/board"
)

const bignum = 1<<63 - 2

// Cell states, relative to the side the engine is searching for.
const (
	StateEmpty = iota
	StateOurs
	StateTheirs
	numStates
)

// generate a zobrist hash for a connection game position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// The table is keyed on relative ownership, so the same physical board hashes
// differently depending on which counter we are searching for. The same
// cells with the other side to move get a different key as well.
type Zobrist struct {
	posTable  [][numStates]uint64
	theirTurn uint64

	width  int
	height int
}

// Initialize sizes the tables to a width x height board and fills them with
// fresh random constants.
func (z *Zobrist) Initialize(width, height int) {
	z.fill(width, height, frand.Uint64n)
}

// InitializeWithSeed is like Initialize, but the constants are a pure
// function of the 32-byte seed.
func (z *Zobrist) InitializeWithSeed(width, height int, seed []byte) {
	rng := frand.NewCustom(seed, 1024, 12)
	z.fill(width, height, rng.Uint64n)
}

func (z *Zobrist) fill(width, height int, uint64n func(uint64) uint64) {
	z.width = width
	z.height = height
	z.posTable = make([][numStates]uint64, width*height)
	for i := range z.posTable {
		for j := 0; j < numStates; j++ {
			z.posTable[i][j] = uint64n(bignum) + 1
		}
	}
	z.theirTurn = uint64n(bignum) + 1
}

func (z *Zobrist) Width() int  { return z.width }
func (z *Zobrist) Height() int { return z.height }

// Fits reports whether the tables were built for boards of this shape.
func (z *Zobrist) Fits(cfg board.Config) bool {
	return z.posTable != nil && z.width == cfg.Width && z.height == cfg.Height
}

func (z *Zobrist) idx(p board.Position) int {
	return p.X*z.height + p.Y
}

// Hash computes the key of b from scratch. Every cell contributes, empty
// ones included. theirTurn is true if the side to move is not self.
func (z *Zobrist) Hash(b *board.Board, self board.Counter, theirTurn bool) uint64 {
	key := uint64(0)
	if theirTurn {
		key ^= z.theirTurn
	}
	for x := 0; x < z.width; x++ {
		for y := 0; y < z.height; y++ {
			p := board.Position{X: x, Y: y}
			key ^= z.posTable[z.idx(p)][stateOf(b.CounterAt(p), self)]
		}
	}
	return key
}

// AddMove returns the key after a counter lands on the previously empty
// cell pos. wasOurMove is true if the counter belongs to the searching side.
// The turn always passes to the other side.
func (z *Zobrist) AddMove(key uint64, pos board.Position, wasOurMove bool) uint64 {
	newState := StateTheirs
	if wasOurMove {
		newState = StateOurs
	}
	i := z.idx(pos)
	key ^= z.posTable[i][StateEmpty]
	key ^= z.posTable[i][newState]
	key ^= z.theirTurn
	return key
}

func stateOf(c, self board.Counter) int {
	switch {
	case c == board.Empty:
		return StateEmpty
	case c == self:
		return StateOurs
	}
	return StateTheirs
}

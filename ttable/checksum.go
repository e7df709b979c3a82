package ttable

import "github.com/cespare/xxhash"

// Checksum is the verification hash stored with every entry. It is computed
// from the relative cell encoding of a board, which shares no state with the
// zobrist tables, so a zobrist collision almost never passes it.
func Checksum(cells []byte) uint64 {
	return xxhash.Sum64(cells)
}

package ttable

import (
	"sync"
	"testing"

	"github.com/matryer/is"
)

func TestTTableEntry(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(0)
	is.True(tt.MaxEntries() >= minEntries)

	check := Checksum([]byte{0, 1, 2, 0})
	tt.Store(9409641586937047728, NewEntry(check, -12, 23, TTUpper))

	te, ok := tt.Lookup(9409641586937047728, check)
	is.True(ok)
	is.True(te.Valid())
	is.Equal(te.Depth(), 23)
	is.Equal(te.Flag(), uint8(TTUpper))
	is.Equal(te.Score(), -12)

	// same key, different position: a collision
	te, ok = tt.Lookup(9409641586937047728, Checksum([]byte{0, 2, 1, 0}))
	is.True(!ok)
	is.Equal(te, TableEntry{})
	is.Equal(tt.Stats().Collisions, uint64(1))

	// a plain miss is not a collision
	_, ok = tt.Lookup(9409641586937047728+1, check)
	is.True(!ok)
	st := tt.Stats()
	is.Equal(st.Lookups, uint64(3))
	is.Equal(st.Hits, uint64(1))
	is.Equal(st.Collisions, uint64(1))
}

func TestDeeperEntryIsKept(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(0)
	tt.Store(42, NewEntry(7, 100, 6, TTExact))
	tt.Store(42, NewEntry(7, 5, 2, TTLower))
	te, ok := tt.Lookup(42, 7)
	is.True(ok)
	is.Equal(te.Score(), 100)
	is.Equal(te.Depth(), 6)

	// a different position under the same key replaces it
	tt.Store(42, NewEntry(8, 5, 2, TTLower))
	te, ok = tt.Lookup(42, 8)
	is.True(ok)
	is.Equal(te.Score(), 5)

	tt.Store(43, NewEntry(1, 0, 400, TTExact))
	te, _ = tt.Lookup(43, 1)
	is.Equal(te.Depth(), TerminalDepth)
}

func TestFullTableClears(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(0)
	tt.maxEntries = 4
	for i := uint64(0); i < 4; i++ {
		tt.Store(i, NewEntry(i, 0, 1, TTExact))
	}
	is.Equal(tt.Len(), 4)
	tt.Store(99, NewEntry(99, 0, 1, TTExact))
	is.Equal(tt.Len(), 1)
	is.Equal(tt.Stats().Clears, uint64(1))

	tt.Reset(0)
	is.Equal(tt.Len(), 0)
	is.Equal(tt.Stats(), Stats{})
}

func TestMultiThreadedMode(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(0)
	tt.SetMultiThreadedMode()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := uint64(g*1000 + i)
				tt.Store(key, NewEntry(key, i, 1, TTExact))
				tt.Lookup(key, key)
			}
		}(g)
	}
	wg.Wait()
	is.Equal(tt.Len(), 4000)
	is.Equal(tt.Stats().Hits, uint64(4000))
}

// Package ttable memoizes search results by position hash.
package ttable

import (
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

// TerminalDepth is stored with values that no deeper search can change,
// such as won or drawn positions.
const TerminalDepth = 255

// rough per-entry cost of a map slot holding a TableEntry
const entrySize = 48

const minEntries = 1 << 16

type TableEntry struct {
	// check is a second, independent hash of the position. A lookup whose
	// check disagrees is a zobrist collision, not a hit.
	check uint64
	score int32
	depth uint8
	flag  uint8
}

func NewEntry(check uint64, score int, depth int, flag uint8) TableEntry {
	if depth > TerminalDepth {
		depth = TerminalDepth
	}
	if depth < 0 {
		depth = 0
	}
	return TableEntry{check: check, score: int32(score), depth: uint8(depth), flag: flag}
}

func (t TableEntry) Score() int    { return int(t.score) }
func (t TableEntry) Depth() int    { return int(t.depth) }
func (t TableEntry) Flag() uint8   { return t.flag }
func (t TableEntry) Valid() bool   { return t.flag != 0 }
func (t TableEntry) Check() uint64 { return t.check }

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

type TranspositionTable struct {
	TableLock
	table      map[uint64]TableEntry
	maxEntries int

	created    atomic.Uint64
	lookups    atomic.Uint64
	hits       atomic.Uint64
	collisions atomic.Uint64
	clears     atomic.Uint64
}

// NewTranspositionTable returns a single-threaded table allowed to use up to
// the given fraction of system memory.
func NewTranspositionTable(fractionOfMemory float64) *TranspositionTable {
	t := &TranspositionTable{}
	t.SetSingleThreadedMode()
	t.Reset(fractionOfMemory)
	return t
}

func (t *TranspositionTable) SetSingleThreadedMode() {
	t.TableLock = &FakeLock{}
}

func (t *TranspositionTable) SetMultiThreadedMode() {
	t.TableLock = new(sync.RWMutex)
}

// Lookup returns the entry stored for zval. The second return value is false
// on a miss, including when a different position shares the key.
func (t *TranspositionTable) Lookup(zval, check uint64) (TableEntry, bool) {
	t.RLock()
	defer t.RUnlock()
	t.lookups.Add(1)
	e, ok := t.table[zval]
	if !ok {
		return TableEntry{}, false
	}
	if e.check != check {
		t.collisions.Add(1)
		return TableEntry{}, false
	}
	t.hits.Add(1)
	return e, true
}

// Store saves an entry. A deeper entry for the same position is kept in
// preference to a shallower one.
func (t *TranspositionTable) Store(zval uint64, tentry TableEntry) {
	t.Lock()
	defer t.Unlock()
	if old, ok := t.table[zval]; ok && old.check == tentry.check && old.depth > tentry.depth {
		return
	}
	if len(t.table) >= t.maxEntries {
		// Nothing clever; start over rather than grow without bound.
		log.Debug().Int("entries", len(t.table)).Msg("transposition-table-full-clearing")
		clear(t.table)
		t.clears.Add(1)
	}
	t.table[zval] = tentry
	t.created.Add(1)
}

// Reset empties the table and sizes its capacity to a fraction of the
// machine's memory.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	if t.TableLock == nil {
		t.SetSingleThreadedMode()
	}
	t.Lock()
	defer t.Unlock()
	totalMem := memory.TotalMemory()
	desired := int(fractionOfMemory * float64(totalMem) / float64(entrySize))
	if desired < minEntries {
		desired = minEntries
	}
	t.maxEntries = desired
	if t.table == nil {
		t.table = make(map[uint64]TableEntry)
	} else {
		clear(t.table)
	}
	log.Debug().Int("max-entries", t.maxEntries).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.collisions.Store(0)
	t.clears.Store(0)
}

func (t *TranspositionTable) Len() int {
	t.RLock()
	defer t.RUnlock()
	return len(t.table)
}

func (t *TranspositionTable) MaxEntries() int { return t.maxEntries }

type Stats struct {
	Created    uint64
	Lookups    uint64
	Hits       uint64
	Collisions uint64
	Clears     uint64
}

func (t *TranspositionTable) Stats() Stats {
	return Stats{
		Created:    t.created.Load(),
		Lookups:    t.lookups.Load(),
		Hits:       t.hits.Load(),
		Collisions: t.collisions.Load(),
		Clears:     t.clears.Load(),
	}
}

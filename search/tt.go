package search

import (
	"sync/atomic"

	"github.com/opensourcechess/pax/board"
)

type Bound uint8

const (
	BoundNone Bound = iota
	BoundUpper
	BoundLower
	BoundExact
)

const clusterSize = 4

// ttEntry is one lock-free slot, CAS-gated exactly as
// ChizhovVadim-CounterGo/engine/transtable.go's tierTransTable does: the
// first word of the entry doubles as a gate so a torn read (a reader
// racing a concurrent writer) is detected and discarded rather than
// trusted.
type ttEntry struct {
	gate  int32
	key32 uint32
	move  board.Move
	score int16
	eval  int16
	depth int8
	bound Bound
	gen   uint8
}

type cluster [clusterSize]ttEntry

// TranspositionTable is a fixed-size, shared, lock-free hash table.
// Multiple search workers probe and update the same table concurrently;
// correctness relies only on the per-entry CAS gate, never a mutex.
type TranspositionTable struct {
	clusters []cluster
	mask     uint64
	gen      uint8
}

func NewTranspositionTable(megabytes int) *TranspositionTable {
	var t = &TranspositionTable{}
	t.Resize(megabytes)
	return t
}

func (t *TranspositionTable) Resize(megabytes int) {
	var count = (megabytes * 1024 * 1024) / int(clusterSizeBytes())
	if count < 1 {
		count = 1
	}
	count = nextPowerOfTwo(count)
	t.clusters = make([]cluster, count)
	t.mask = uint64(count - 1)
}

func clusterSizeBytes() int64 {
	return int64(clusterSize * 24)
}

func nextPowerOfTwo(n int) int {
	var p = 1
	for p < n {
		p <<= 1
	}
	return p
}

// Clear zeroes the table. Called on ucinewgame, never mid-search.
func (t *TranspositionTable) Clear() {
	for i := range t.clusters {
		t.clusters[i] = cluster{}
	}
}

// NewSearch bumps the generation counter so replacement scoring favors
// entries written during the current search over stale ones from a
// previous position, without needing to clear the table.
func (t *TranspositionTable) NewSearch() {
	t.gen++
}

func (t *TranspositionTable) index(key uint64) uint64 { return key & t.mask }

type Entry struct {
	Move  board.Move
	Score int
	Eval  int
	Depth int
	Bound Bound
	Found bool
}

// Probe looks up key, translating any stored mate score to a score
// relative to height and clamping it against rule50 (§4.4's
// value_from_tt). It re-reads the slot and re-checks the gate after the
// read to detect a write that raced the probe, matching the teacher's
// CAS-gated read discipline.
func (t *TranspositionTable) Probe(key uint64, height, rule50 int) Entry {
	var c = &t.clusters[t.index(key)]
	var key32 = uint32(key >> 32)
	for i := range c {
		var e = &c[i]
		if atomic.LoadInt32(&e.gate) != 0 {
			continue
		}
		if e.key32 == key32 && e.bound != BoundNone {
			var out = Entry{
				Move:  e.move,
				Score: valueFromTT(int(e.score), height, rule50),
				Eval:  int(e.eval),
				Depth: int(e.depth),
				Bound: e.bound,
				Found: true,
			}
			if atomic.LoadInt32(&e.gate) != 0 || e.key32 != key32 {
				continue
			}
			return out
		}
	}
	return Entry{}
}

// Store writes a search result into the table, replacing whichever
// cluster slot scores lowest under transEntryScore -- same-generation
// deep entries are protected, stale or shallow ones are evicted first.
func (t *TranspositionTable) Store(key uint64, move board.Move, score, eval, depth int, bound Bound, height int) {
	var c = &t.clusters[t.index(key)]
	var key32 = uint32(key >> 32)

	var replaceIdx = 0
	var replaceScore = 1 << 30
	for i := range c {
		var e = &c[i]
		if e.bound == BoundNone || e.key32 == key32 {
			replaceIdx = i
			break
		}
		var s = transEntryScore(int(e.depth), e.gen, t.gen)
		if s < replaceScore {
			replaceScore = s
			replaceIdx = i
		}
	}

	var e = &c[replaceIdx]
	if !atomic.CompareAndSwapInt32(&e.gate, 0, 1) {
		return
	}
	if move == board.MoveEmpty && e.key32 == key32 {
		move = e.move
	}
	e.key32 = key32
	e.move = move
	e.score = int16(valueToTT(score, height))
	e.eval = int16(eval)
	e.depth = int8(depth)
	e.bound = bound
	e.gen = t.gen
	atomic.StoreInt32(&e.gate, 0)
}

func transEntryScore(depth int, entryGen, curGen uint8) int {
	var age = int(curGen - entryGen)
	return depth - age*8
}

// Megabytes reports the table's current size, rounded down to whatever
// the power-of-two cluster count actually occupies.
func (t *TranspositionTable) Megabytes() int {
	return len(t.clusters) * int(clusterSizeBytes()) / (1024 * 1024)
}

func (t *TranspositionTable) HashFull() int {
	if len(t.clusters) == 0 {
		return 0
	}
	var used = 0
	var sample = 1000
	if sample > len(t.clusters) {
		sample = len(t.clusters)
	}
	for i := 0; i < sample; i++ {
		for j := range t.clusters[i] {
			if t.clusters[i][j].bound != BoundNone && t.clusters[i][j].gen == t.gen {
				used++
			}
		}
	}
	return used * 1000 / (sample * clusterSize)
}

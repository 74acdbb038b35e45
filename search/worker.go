package search

import (
	"sync/atomic"

	"github.com/opensourcechess/pax/board"
	"github.com/opensourcechess/pax/eval"
)

// Worker holds one search thread's private state: its own history
// tables (never shared, per spec) plus references to the tables that
// are shared across the whole Coordinator (the transposition table and
// breadcrumb registry). Grounded on
// ChizhovVadim-CounterGo/engine/engine.go's per-thread search-context
// tree, generalized from an explicit tree of contexts to per-height
// stack slices sized once per search.
type Worker struct {
	ID int

	tt          *TranspositionTable
	breadcrumbs *Breadcrumbs
	history     *HistoryTables
	eval        eval.Evaluator
	stopped     *int32

	Nodes    int64
	SelDepth int

	// CompletedDepth is the last depth this worker finished searching
	// across every MultiPV band without being stopped mid-iteration; the
	// coordinator's best-thread vote treats a deeper completedDepth as
	// preferred over a shallower one, per spec §4.10.
	CompletedDepth int

	// bestMoveChanges counts how often this worker's band leader flipped
	// across iterations; the coordinator sums it across workers to drive
	// the time manager's bestMoveInstability term.
	bestMoveChanges int64

	// dynamicContempt is the "Dynamic Contempt" operator option (dt in
	// spec §4.2's formula); contemptMg/contemptEg are the tapered
	// mg/eg pair derived from it each iteration, already converted to
	// White's frame so every Evaluate call during that iteration can add
	// them without re-deriving a sign per node.
	dynamicContempt        int
	contemptMg, contemptEg int32

	// variety is the "Variety" operator option: a half-width in centipawns
	// for a deterministic stand-pat jitter in quiescence, keyed off the
	// position hash so the same position always jitters the same way
	// within one process. 0 disables it.
	variety int

	rootPos     board.Position
	keyHistory  []uint64
	moveHistory []board.Move
	staticEvals [MaxHeight + 2]int

	// ExactSearch is spec's fullSearch worker flag: when set, negamax
	// skips reverse futility, null move, ProbCut, late-move/history
	// pruning, and LMR entirely, searching every legal move at full
	// depth, while still recording history updates as usual. Valid only
	// when a single worker is active; the coordinator refuses to set it
	// when more than one worker is configured.
	ExactSearch bool

	RootMoves []RootMove
}

func newWorker(id int, tt *TranspositionTable, bc *Breadcrumbs, ev eval.Evaluator, stopped *int32) *Worker {
	return &Worker{
		ID:          id,
		tt:          tt,
		breadcrumbs: bc,
		history:     NewHistoryTables(),
		eval:        ev,
		stopped:     stopped,
	}
}

func (w *Worker) stop() bool { return atomic.LoadInt32(w.stopped) != 0 }

func (w *Worker) pushKey(key uint64) { w.keyHistory = append(w.keyHistory, key) }
func (w *Worker) popKey()            { w.keyHistory = w.keyHistory[:len(w.keyHistory)-1] }

func (w *Worker) pushMove(m board.Move) { w.moveHistory = append(w.moveHistory, m) }
func (w *Worker) popMove()              { w.moveHistory = w.moveHistory[:len(w.moveHistory)-1] }

// continuationAncestors gathers the moves played 1, 2, 4 and 6 plies
// before the node currently being searched, the offsets continuation
// history keys off (spec §3, §4.6). A missing ancestor (too close to the
// search root or across a null move) reports as board.MoveEmpty, which
// callers treat as "no continuation contribution" rather than a lookup.
var continuationOffsets = [4]int{1, 2, 4, 6}

func (w *Worker) continuationAncestors() [4]board.Move {
	var out [4]board.Move
	var n = len(w.moveHistory)
	for i, off := range continuationOffsets {
		if off <= n {
			out[i] = w.moveHistory[n-off]
		}
	}
	return out
}

func (w *Worker) isDraw(pos *board.Position) bool {
	if pos.IsInsufficientMaterial() {
		return true
	}
	if len(w.keyHistory) == 0 {
		return pos.IsRepetitionDraw(nil)
	}
	// keyHistory ends with pos's own key; IsRepetitionDraw wants only
	// the keys before it.
	return pos.IsRepetitionDraw(w.keyHistory[:len(w.keyHistory)-1])
}

package search

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opensourcechess/pax/board"
	"github.com/opensourcechess/pax/eval"
)

// Coordinator owns the shared transposition table and breadcrumb
// registry and fans work out across a pool of Workers using
// golang.org/x/sync/errgroup, replacing
// engine/searchserviceparallel.go's raw sync.WaitGroup+goroutine loop
// with structured, cancellation-aware fan-out -- the same library
// ChizhovVadim-CounterGo itself reaches for in cmd/arena/arena.go
// whenever it needs exactly this shape of fan-out.
type Coordinator struct {
	TT          *TranspositionTable
	Breadcrumbs *Breadcrumbs
	Eval        eval.Evaluator
	Threads     int
	MultiPV     int

	// DynamicContempt is the "Dynamic Contempt" operator option (dt in
	// spec.md §4.2's formula); 0 disables contempt entirely.
	DynamicContempt int

	// Variety is the "Variety" operator option: a stand-pat jitter half-
	// width workers apply during quiescence to diversify move choice once
	// the opening book runs out. 0 disables it.
	Variety int

	stopped int32
	tm      *TimeManager
}

func NewCoordinator(tt *TranspositionTable, ev eval.Evaluator) *Coordinator {
	return &Coordinator{
		TT:          tt,
		Breadcrumbs: NewBreadcrumbs(),
		Eval:        ev,
		Threads:     1,
		MultiPV:     1,
	}
}

// OnInfo is called from the main worker's (ID 0) goroutine after each
// MultiPV band it completes; callers (the uci package) must not block in
// it for long.
type OnInfo func(Info)

func (c *Coordinator) Stop() { atomic.StoreInt32(&c.stopped, 1) }

func (c *Coordinator) IsStopped() bool { return atomic.LoadInt32(&c.stopped) != 0 }

// Search runs a full parallel search to the limits described by lim,
// reporting progress through onInfo, and returns the best move found
// (MoveEmpty if the position has no legal moves).
func (c *Coordinator) Search(ctx context.Context, pos board.Position, history []uint64, lim Limits, onInfo OnInfo) board.Move {
	atomic.StoreInt32(&c.stopped, 0)
	c.TT.NewSearch()

	var legal = board.LegalMoves(&pos)
	if len(legal) == 0 {
		if onInfo != nil {
			if pos.InCheck() {
				onInfo(Info{Depth: 0, Score: MateIn(0), IsMate: true})
			} else {
				onInfo(Info{Depth: 0, Score: ValueDraw})
			}
		}
		return board.MoveEmpty
	}
	if len(legal) == 1 && !lim.Infinite {
		return legal[0]
	}

	c.tm = NewTimeManager(lim, pos.WhiteMove)
	var deadline, hasDeadline = c.tm.HardDeadline()

	var runCtx = ctx
	var cancel context.CancelFunc
	if hasDeadline {
		runCtx, cancel = context.WithDeadline(ctx, deadline)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	var threads = c.Threads
	if threads < 1 {
		threads = 1
	}

	var workers = make([]*Worker, threads)
	for i := range workers {
		workers[i] = newWorker(i, c.TT, c.Breadcrumbs, c.Eval, &c.stopped)
		workers[i].rootPos = pos
		workers[i].keyHistory = append(append([]uint64{}, history...), pos.Key)
		workers[i].RootMoves = newRootMoves(&pos, lim.SearchMoves)
		workers[i].ExactSearch = threads == 1
		workers[i].dynamicContempt = c.DynamicContempt
		workers[i].variety = c.Variety
	}

	var maxDepth = lim.Depth
	if maxDepth <= 0 || maxDepth > MaxHeight {
		maxDepth = MaxHeight
	}

	var g, gctx = errgroup.WithContext(runCtx)
	for _, worker := range workers {
		var w = worker
		g.Go(func() error {
			w.runIterativeDeepening(&w.rootPos, maxDepth, c.MultiPV, func(depth, pvIdx int, rm RootMove) {
				if w.ID != 0 || onInfo == nil {
					return
				}
				onInfo(Info{
					Depth:    depth,
					SelDepth: w.SelDepth,
					MultiPV:  pvIdx + 1,
					Score:    rm.Score,
					IsMate:   IsMateScore(rm.Score),
					Nodes:    c.totalNodes(workers),
					PV:       rm.PV,
				})
				if !c.tm.ShouldContinue(depth, rm.Score, rm.PrevScore, c.totalBestMoveChanges(workers), threads, len(w.RootMoves)) {
					c.Stop()
				}
			})
			return nil
		})
	}

	go func() {
		<-gctx.Done()
		c.Stop()
	}()
	if hasDeadline {
		go c.watchDeadline(deadline)
	}

	_ = g.Wait()
	c.Stop()

	var best = c.selectBestWorker(workers)
	if best == nil || len(best.RootMoves) == 0 {
		return legal[0]
	}
	return best.RootMoves[0].Move
}

func (c *Coordinator) watchDeadline(deadline time.Time) {
	var d = time.Until(deadline)
	if d < 0 {
		d = 0
	}
	var timer = time.NewTimer(d)
	defer timer.Stop()
	<-timer.C
	c.Stop()
}

func (c *Coordinator) totalNodes(workers []*Worker) int64 {
	var total int64
	for _, w := range workers {
		total += w.Nodes
	}
	return total
}

func (c *Coordinator) totalBestMoveChanges(workers []*Worker) int64 {
	var total int64
	for _, w := range workers {
		total += w.bestMoveChanges
	}
	return total
}

// selectBestWorker implements the best-thread voting comparator of
// original_source/src/search.cpp's Threads.get_best_thread(): a deeper
// CompletedDepth is preferred over a shallower one (spec §4.10), with a
// bias against switching to a deeper worker that merely found a worse
// score than the current best -- exactly the "bias against reporting a
// losing score at greater depth" spec §4.10 names. Mate scores always
// win over non-mate scores regardless of depth, since a proven mate is
// never noise.
func (c *Coordinator) selectBestWorker(workers []*Worker) *Worker {
	var best = workers[0]
	for _, w := range workers[1:] {
		if len(w.RootMoves) == 0 {
			continue
		}
		if len(best.RootMoves) == 0 {
			best = w
			continue
		}
		var bestScore = best.RootMoves[0].Score
		var wScore = w.RootMoves[0].Score

		if IsMateScore(wScore) && (!IsMateScore(bestScore) || wScore > bestScore) {
			best = w
			continue
		}
		if IsMateScore(bestScore) && !IsMateScore(wScore) {
			continue
		}
		if w.CompletedDepth > best.CompletedDepth {
			if wScore >= bestScore-15 {
				best = w
			}
			continue
		}
		if w.CompletedDepth == best.CompletedDepth && wScore > bestScore {
			best = w
		}
	}
	return best
}

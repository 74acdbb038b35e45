package search

import "time"

const (
	movesToGoDefault = 45
	moveOverheadMS   = 20
)

// TimeManager computes soft/hard think-time budgets and decides whether
// an iteration's result justifies continuing to the next depth.
// Grounded on engine/timemanagement.go's ComputeThinkTime for the
// optimum/maximum budget split, extended per spec §4.9 with
// original_source/src/timeman.cpp's falling-eval, best-move-instability
// and time-reduction terms: a shrinking score or a best move that keeps
// flipping across workers earns extra time within the hard limit,
// everything else stops at the soft (optimum) limit.
type TimeManager struct {
	start    time.Time
	softMS   int // optimum
	hardMS   int // maximum
	movetime bool
	infinite bool

	iterValues            []int
	previousTimeReduction float64
	lastBestMoveDepth     int
	prevBestMoveChanges   int64
}

func NewTimeManager(lim Limits, whiteToMove bool) *TimeManager {
	var tm = &TimeManager{start: timeNow(), previousTimeReduction: 1}

	if lim.Infinite || lim.Ponder {
		tm.infinite = true
		return tm
	}
	if lim.MoveTime > 0 {
		tm.softMS = lim.MoveTime
		tm.hardMS = lim.MoveTime
		tm.movetime = true
		return tm
	}

	var mainTime, incTime = lim.WhiteTime, lim.WhiteInc
	if !whiteToMove {
		mainTime, incTime = lim.BlackTime, lim.BlackInc
	}
	if mainTime == 0 && incTime == 0 && lim.Depth == 0 && lim.Nodes == 0 {
		tm.infinite = true
		return tm
	}

	var movesToGo = lim.MovesToGo
	if movesToGo <= 0 {
		movesToGo = movesToGoDefault
	}

	var reserve = maxInt(2*moveOverheadMS, minInt(1000, mainTime/20))
	mainTime = maxInt(0, mainTime-reserve)

	tm.softMS = mainTime/movesToGo + incTime
	tm.hardMS = minInt(mainTime/2, tm.softMS*5)
	if tm.hardMS < tm.softMS {
		tm.hardMS = tm.softMS
	}
	return tm
}

// HardDeadline reports the wall-clock time past which the search must
// stop unconditionally, or ok=false when the search has no time bound
// (depth/nodes-limited or explicitly infinite).
func (tm *TimeManager) HardDeadline() (time.Time, bool) {
	if tm.infinite || tm.hardMS <= 0 {
		return time.Time{}, false
	}
	return tm.start.Add(time.Duration(tm.hardMS) * time.Millisecond), true
}

// ShouldContinue is polled after every completed iteration by the main
// worker. It implements §4.9's documented feedback loop verbatim:
// fallingEval widens the budget when the score is dropping, timeReduction
// and reduction dampen it once the best move has been stable for a while,
// and bestMoveInstability widens it again in proportion to how often the
// workers' best moves have been flipping.
func (tm *TimeManager) ShouldContinue(depth, score, prevScore int, totalBestMoveChanges int64, workers, rootMovesCount int) bool {
	if tm.infinite || tm.softMS <= 0 {
		return true
	}

	if totalBestMoveChanges > tm.prevBestMoveChanges {
		tm.lastBestMoveDepth = depth
	}
	tm.prevBestMoveChanges = totalBestMoveChanges

	tm.iterValues = append(tm.iterValues, score)
	if len(tm.iterValues) > 4 {
		tm.iterValues = tm.iterValues[len(tm.iterValues)-4:]
	}
	var iterValue = tm.iterValues[0]

	var elapsed = float64(time.Since(tm.start).Milliseconds())
	var optimum = float64(tm.softMS)

	var fallingEval = clampFloat((318+6*float64(prevScore-score)+6*float64(iterValue-score))/825, 0.5, 1.5)

	var timeReduction = 0.95
	if tm.lastBestMoveDepth+9 < depth {
		timeReduction = 1.92
	}
	var reduction = (1.47 + tm.previousTimeReduction) / (2.32 * timeReduction)
	tm.previousTimeReduction = timeReduction

	var bestMoveInstability = 1.0
	if workers > 0 {
		bestMoveInstability = 1.073 + maxFloat(1.0, 2.25-9.9/float64(depth))*float64(totalBestMoveChanges)/float64(workers)
	}

	if rootMovesCount == 1 && elapsed > optimum/16 {
		return false
	}

	var threshold = optimum * fallingEval * reduction * bestMoveInstability
	if threshold > float64(tm.hardMS) {
		threshold = float64(tm.hardMS)
	}
	return elapsed <= threshold
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// timeNow exists so tests can't accidentally depend on wall-clock
// determinism creeping into the rest of the package; it is the sole
// caller of time.Now in this file.
func timeNow() time.Time { return time.Now() }

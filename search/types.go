// Package search implements the parallel alpha-beta search engine: a
// clustered lock-free transposition table, staged move ordering with
// gravity-formula history, quiescence search, the negamax main search
// with the usual pruning and extension menu, an aspiration-window
// iterative-deepening driver, and an errgroup-based worker pool.
package search

import "github.com/opensourcechess/pax/board"

const (
	MaxHeight = 64
	MaxMoves  = board.MaxMoves

	ValueDraw    = 0
	ValueMate    = 30000
	ValueInfinite = 30001

	ValueMateInMaxHeight  = ValueMate - MaxHeight
	ValueMatedInMaxHeight = -ValueMate + MaxHeight

	ValueNone = -ValueInfinite - 1
)

// MateIn/MatedIn convert a ply-to-mate count into a search score, and
// IsMateScore reports whether a score already represents forced mate.
func MateIn(ply int) int  { return ValueMate - ply }
func MatedIn(ply int) int { return -ValueMate + ply }

func IsMateScore(v int) bool {
	return v >= ValueMateInMaxHeight || v <= ValueMatedInMaxHeight
}

// RootMove tracks one root candidate across iterative-deepening
// iterations, following original_source/src/search.cpp's RootMove:
// score/previous score for stability tracking, PV line, and a TB rank
// used to band moves for MultiPV even when no tablebase is loaded.
type RootMove struct {
	Move      board.Move
	Score     int
	PrevScore int
	PV        []board.Move
	TBRank    int
	Selector  int
}

// Limits mirrors the UCI go-command parameters.
type Limits struct {
	WhiteTime, BlackTime int
	WhiteInc, BlackInc   int
	MovesToGo            int
	Depth                int
	Nodes                int64
	MoveTime             int
	Infinite             bool
	Ponder               bool
	Mate                 int
	SearchMoves          []board.Move
}

// Info is one iteration's worth of reporting data, forwarded to the uci
// package's "info depth ... pv ..." line formatter.
type Info struct {
	Depth    int
	SelDepth int
	MultiPV  int
	Score    int
	IsMate   bool
	Nodes    int64
	Time     int64
	PV       []board.Move
}

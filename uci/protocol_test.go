package uci

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/opensourcechess/pax/search"
)

func TestUciHandshakePrintsIdAndOptions(t *testing.T) {
	var in = strings.NewReader("uci\nquit\n")
	var out bytes.Buffer
	Run(in, &out)

	var text = out.String()
	if !strings.Contains(text, "id name Pax") {
		t.Fatalf("missing id name line:\n%s", text)
	}
	if !strings.Contains(text, "id author") {
		t.Fatalf("missing id author line:\n%s", text)
	}
	if !strings.Contains(text, "option name Hash") {
		t.Fatalf("missing Hash option:\n%s", text)
	}
	if !strings.Contains(text, "uciok") {
		t.Fatalf("missing uciok:\n%s", text)
	}
}

func TestIsReadyRespondsReadyok(t *testing.T) {
	var in = strings.NewReader("isready\nquit\n")
	var out bytes.Buffer
	Run(in, &out)
	if !strings.Contains(out.String(), "readyok") {
		t.Fatalf("missing readyok:\n%s", out.String())
	}
}

func TestSetOptionUpdatesRegisteredOption(t *testing.T) {
	var e = NewEngine()
	var out bytes.Buffer
	e.handleSetOption(strings.Fields("name Threads value 4"), &out)

	var threads = e.options.byName["Threads"].(*IntOption)
	if threads.Value() != 4 {
		t.Fatalf("Threads = %d, want 4", threads.Value())
	}
	if e.coordinator.Threads != 4 {
		t.Fatalf("coordinator.Threads = %d, want 4", e.coordinator.Threads)
	}
}

func TestSetOptionUnknownReportsInfoString(t *testing.T) {
	var e = NewEngine()
	var out bytes.Buffer
	e.handleSetOption(strings.Fields("name Nope value 1"), &out)
	if !strings.Contains(out.String(), "info string") {
		t.Fatalf("expected an info string for an unknown option, got: %s", out.String())
	}
}

func TestHandlePositionStartposWithMoves(t *testing.T) {
	var e = NewEngine()
	e.handlePosition(strings.Fields("startpos moves e2e4 e7e5"))
	if !e.pos.WhiteMove {
		t.Fatal("after e2e4 e7e5 it should be white to move")
	}
	if len(e.history) != 3 {
		t.Fatalf("history length = %d, want 3 (startpos + 2 plies)", len(e.history))
	}
}

func TestHandlePositionFEN(t *testing.T) {
	var e = NewEngine()
	e.handlePosition(strings.Fields("fen 8/8/8/8/8/3k4/8/3KQ3 w - - 0 1"))
	if e.pos.WhiteMove != true {
		t.Fatal("expected white to move in the given FEN")
	}
}

func TestGoDepthOneReturnsBestmove(t *testing.T) {
	var e = NewEngine()
	var out bytes.Buffer
	e.handleGo(strings.Fields("depth 1"), &out)
	e.searchWG.Wait()

	if !strings.Contains(out.String(), "bestmove ") {
		t.Fatalf("expected a bestmove line, got: %s", out.String())
	}
}

func TestParseLimitsExtractsFields(t *testing.T) {
	var lim = parseLimits(strings.Fields("wtime 60000 btime 60000 winc 1000 binc 1000 movestogo 20 depth 5"))
	if lim.WhiteTime != 60000 || lim.BlackTime != 60000 || lim.WhiteInc != 1000 || lim.BlackInc != 1000 {
		t.Fatalf("time fields not parsed: %+v", lim)
	}
	if lim.MovesToGo != 20 || lim.Depth != 5 {
		t.Fatalf("movestogo/depth not parsed: %+v", lim)
	}
}

func TestParseLimitsInfinite(t *testing.T) {
	var lim = parseLimits(strings.Fields("infinite"))
	if !lim.Infinite {
		t.Fatal("expected Infinite=true")
	}
}

func TestWinDrawLossSumsToOneThousand(t *testing.T) {
	for _, score := range []int{-800, -50, 0, 50, 800} {
		win, draw, loss := winDrawLoss(score)
		if win+draw+loss != 1000 {
			t.Fatalf("winDrawLoss(%d) = (%d,%d,%d), does not sum to 1000", score, win, draw, loss)
		}
		if win < 0 || draw < 0 || loss < 0 {
			t.Fatalf("winDrawLoss(%d) produced a negative bucket: (%d,%d,%d)", score, win, draw, loss)
		}
	}
}

func TestWinDrawLossMonotonicInScore(t *testing.T) {
	winLow, _, _ := winDrawLoss(-200)
	winHigh, _, _ := winDrawLoss(200)
	if winHigh <= winLow {
		t.Fatalf("win probability should increase with score: winLow=%d winHigh=%d", winLow, winHigh)
	}
}

func TestUciShowWDLAnnotatesInfoLine(t *testing.T) {
	var e = NewEngine()
	if err := e.options.Set("UCI_ShowWDL", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var out bytes.Buffer
	e.printInfo(&out, search.Info{Depth: 5, Score: 30}, time.Now())
	if !strings.Contains(out.String(), " wdl ") {
		t.Fatalf("expected a wdl annotation once UCI_ShowWDL is set, got: %s", out.String())
	}
}

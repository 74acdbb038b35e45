package tablebase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opensourcechess/pax/board"
)

func TestNewLocalProberScansPieceCounts(t *testing.T) {
	var dir = t.TempDir()
	for _, name := range []string{"KQvK.rtbw", "KRPvKR.rtbw", "not-a-tablebase.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	var p = NewLocalProber(dir)
	if !p.Available() {
		t.Fatal("Available() = false, want true after finding .rtbw files")
	}
	if p.MaxPieces() != 5 {
		t.Fatalf("MaxPieces() = %d, want 5 (KRPvKR)", p.MaxPieces())
	}
}

func TestLocalProberUnavailableOnEmptyDir(t *testing.T) {
	var p = NewLocalProber(t.TempDir())
	if p.Available() {
		t.Fatal("Available() = true on an empty directory")
	}
}

func TestLocalProberProbeNeverClaimsAHit(t *testing.T) {
	var dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "KQvK.rtbw"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	var p = NewLocalProber(dir)
	var pos, _ = board.NewPositionFromFEN("8/8/8/8/8/3k4/8/3KQ3 w - - 0 1")

	if got := p.Probe(&pos); got.Found {
		t.Fatal("Probe reported Found=true; LocalProber never decodes Syzygy binaries")
	}
}

func TestNoopProberAlwaysUnavailable(t *testing.T) {
	var p = NoopProber{}
	if p.Available() || p.MaxPieces() != 0 {
		t.Fatalf("NoopProber reports availability: %+v", p)
	}
	var pos, _ = board.NewPositionFromFEN(board.InitialPositionFEN)
	if p.Probe(&pos).Found {
		t.Fatal("NoopProber.Probe reported a hit")
	}
}

func TestWDLToScorePrefersCloserWins(t *testing.T) {
	if WDLToScore(WDLWin, 2) <= WDLToScore(WDLWin, 10) {
		t.Fatal("a tablebase win closer to the root should score higher than a deeper one")
	}
	if WDLToScore(WDLDraw, 5) != 0 {
		t.Fatalf("WDLToScore(WDLDraw, 5) = %d, want 0", WDLToScore(WDLDraw, 5))
	}
}

func TestCountPieces(t *testing.T) {
	var pos, _ = board.NewPositionFromFEN(board.InitialPositionFEN)
	if got := CountPieces(&pos); got != 32 {
		t.Fatalf("CountPieces(startpos) = %d, want 32", got)
	}
}

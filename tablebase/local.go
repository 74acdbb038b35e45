package tablebase

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/opensourcechess/pax/board"
)

// LocalProber checks for the presence of Syzygy WDL files (*.rtbw)
// under a directory and reports the largest piece count it has files
// for, but does not decode the Syzygy binary format -- that format runs
// to several thousand lines in the reference Fathom/pyrrhic C libraries
// and no file in the retrieval pack reimplements it locally (see
// DESIGN.md). Probe therefore always reports Found: false; this is a
// legal, if uninformative, implementation of the Prober contract, and
// keeps SyzygyPath a real, wireable UCI option rather than a dead one.
type LocalProber struct {
	dir        string
	maxPieces  int
	probeLimit int
}

var rtbwPattern = regexp.MustCompile(`^K?[QRBNP]{0,6}vK?[QRBNP]{0,6}\.rtbw$`)

func NewLocalProber(dir string) *LocalProber {
	var p = &LocalProber{dir: dir}
	p.rescan()
	return p
}

func (p *LocalProber) rescan() {
	if p.dir == "" {
		return
	}
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !rtbwPattern.MatchString(filepath.Base(entry.Name())) {
			continue
		}
		var pieces = countLetters(entry.Name())
		if pieces > p.maxPieces {
			p.maxPieces = pieces
		}
	}
}

func countLetters(name string) int {
	var n = 0
	for _, c := range name {
		switch c {
		case 'K', 'Q', 'R', 'B', 'N', 'P':
			n++
		}
	}
	return n
}

// SetProbeLimit applies the "SyzygyProbeLimit" operator option: a ceiling
// on piece count below the largest tablebase actually found on disk. 0
// leaves the scanned maximum untouched.
func (p *LocalProber) SetProbeLimit(n int) { p.probeLimit = n }

func (p *LocalProber) Available() bool { return p.MaxPieces() > 0 }

func (p *LocalProber) MaxPieces() int {
	if p.probeLimit > 0 && p.probeLimit < p.maxPieces {
		return p.probeLimit
	}
	return p.maxPieces
}

func (p *LocalProber) Probe(pos *board.Position) ProbeResult {
	if !p.Available() || CountPieces(pos) > p.MaxPieces() {
		return ProbeResult{}
	}
	return ProbeResult{Found: false}
}

func (p *LocalProber) ProbeRoot(pos *board.Position, moves []board.Move) RootResult {
	if !p.Available() || CountPieces(pos) > p.MaxPieces() {
		return RootResult{}
	}
	return RootResult{}
}


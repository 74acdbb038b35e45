package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/opensourcechess/pax/board"
	"github.com/opensourcechess/pax/book"
	"github.com/opensourcechess/pax/eval"
	"github.com/opensourcechess/pax/search"
	"github.com/opensourcechess/pax/tablebase"
)

const engineName = "Pax"
const engineAuthor = "the opensourcechess project"

// Engine wires the search core to the outside world: the position
// state the "position"/"go" commands mutate, the shared search
// infrastructure, and the option registry. Grounded on
// ChizhovVadim-CounterGo/uci/uciprotocol.go's uciProtocol, generalized
// from a single hard-coded engine.Engine dependency to this module's
// board/search/book/tablebase packages.
type Engine struct {
	pos     board.Position
	history []uint64

	tt          *search.TranspositionTable
	coordinator *search.Coordinator
	evaluator   eval.Evaluator

	book1        *book.Book1
	book1Depth   int
	book1Best    bool
	book2        *book.Book1
	book2Depth   int
	experience   *book.ExperienceStore
	expMaxMoves  int
	expMinDepth  int
	expEvalImp   int
	expBestMove  bool
	expReadonly  bool
	neverClearHash bool
	syzygyProbeDepth int
	syzygyProbeLimit int
	syzygy50MoveRule bool
	prober tablebase.Prober
	rng    *rand.Rand

	options *OptionRegistry

	searchWG  sync.WaitGroup
	pondering bool
}

func NewEngine() *Engine {
	var e = &Engine{
		evaluator:  eval.NewClassical(),
		prober:     tablebase.NoopProber{},
		rng:        rand.New(rand.NewSource(1)),
		expEvalImp: 5,
	}
	e.tt = search.NewTranspositionTable(16)
	e.coordinator = search.NewCoordinator(e.tt, e.evaluator)
	e.setupOptions()
	e.NewGame()
	return e
}

func (e *Engine) setupOptions() {
	e.options = NewOptionRegistry()
	e.options.Add(NewIntOption("Hash", 16, 1, 65536, func(mb int) {
		e.tt.Resize(mb)
	}))
	e.options.Add(NewIntOption("Threads", 1, 1, 512, func(n int) {
		e.coordinator.Threads = n
	}))
	e.options.Add(NewIntOption("MultiPV", 1, 1, 500, func(n int) {
		e.coordinator.MultiPV = n
	}))
	e.options.Add(NewBoolOption("Ponder", false, nil))
	e.options.Add(NewBoolOption("UCI_ShowWDL", false, nil))
	e.options.Add(NewIntOption("Dynamic Contempt", 0, -128, 127, func(v int) {
		e.coordinator.DynamicContempt = v
	}))
	e.options.Add(NewIntOption("Variety", 0, 0, 40, func(v int) {
		e.coordinator.Variety = v
	}))
	e.options.Add(NewIntOption("multiPV Search", 0, 0, 8, func(k int) {
		if k > 0 {
			e.coordinator.MultiPV = 1 << uint(k)
		}
	}))
	e.options.Add(NewBoolOption("NeverClearHash", false, func(v bool) {
		e.neverClearHash = v
	}))

	e.options.Add(NewStringOption("SyzygyPath", "", func(path string) {
		var p = tablebase.NewLocalProber(path)
		p.SetProbeLimit(e.syzygyProbeLimit)
		e.prober = p
	}))
	e.options.Add(NewIntOption("SyzygyProbeDepth", 1, 1, 100, func(v int) {
		// Stored for a future real Syzygy decoder to consult: LocalProber
		// never reports a tablebase hit (see DESIGN.md), so no search-side
		// probe currently reads this depth floor.
		e.syzygyProbeDepth = v
	}))
	e.options.Add(NewIntOption("SyzygyProbeLimit", 7, 0, 7, func(v int) {
		e.syzygyProbeLimit = v
		if p, ok := e.prober.(*tablebase.LocalProber); ok {
			p.SetProbeLimit(v)
		}
	}))
	e.options.Add(NewBoolOption("Syzygy50MoveRule", true, func(v bool) {
		// Same limitation as SyzygyProbeDepth: nothing yet probes real
		// tablebase files, so this has no adjudication to switch.
		e.syzygy50MoveRule = v
	}))

	e.options.Add(NewStringOption("Book1", "", func(path string) {
		if path == "" {
			e.book1 = nil
			return
		}
		b, err := book.LoadPolyglot(path)
		if err != nil {
			log.Printf("uci: failed to load book %s: %v", path, err)
			return
		}
		e.book1 = b
	}))
	e.options.Add(NewIntOption("Book1 Depth", 255, 0, 1000, func(v int) {
		e.book1Depth = v
	}))
	e.options.Add(NewBoolOption("Book1 BestBookMove", false, func(v bool) {
		e.book1Best = v
	}))
	e.options.Add(NewStringOption("Book2", "", func(path string) {
		if path == "" {
			e.book2 = nil
			return
		}
		b, err := book.LoadPolyglot(path)
		if err != nil {
			log.Printf("uci: failed to load book %s: %v", path, err)
			return
		}
		e.book2 = b
	}))
	e.options.Add(NewIntOption("Book2 Depth", 255, 0, 1000, func(v int) {
		e.book2Depth = v
	}))

	e.options.Add(NewBoolOption("Experience Book", false, func(on bool) {
		if !on {
			if e.experience != nil {
				e.experience.Close()
				e.experience = nil
			}
			return
		}
	}))
	e.options.Add(NewStringOption("Experience Book Path", "pax.exp", func(path string) {
		if e.experience != nil {
			e.experience.Close()
		}
		store, err := book.OpenExperienceStore(path)
		if err != nil {
			log.Printf("uci: failed to open experience store %s: %v", path, err)
			return
		}
		e.experience = store
	}))
	e.options.Add(NewIntOption("Experience Book Max Moves", 0, 0, 1000, func(v int) {
		e.expMaxMoves = v
	}))
	e.options.Add(NewIntOption("Experience Book Min Depth", 4, 0, 100, func(v int) {
		e.expMinDepth = v
	}))
	e.options.Add(NewIntOption("Experience Book Eval Importance", 5, 0, 10, func(v int) {
		e.expEvalImp = v
	}))
	e.options.Add(NewBoolOption("Experience Book Best Move", false, func(v bool) {
		e.expBestMove = v
	}))
	e.options.Add(NewBoolOption("Experience Readonly", false, func(v bool) {
		e.expReadonly = v
	}))
}

func (e *Engine) NewGame() {
	if !e.neverClearHash {
		e.tt.Clear()
	}
	e.pos, _ = board.NewPositionFromFEN(board.InitialPositionFEN)
	e.history = nil
}

// Run drives the read-eval loop over r, writing responses to w, matching
// uciprotocol.go's Run/handle dispatch structure.
func Run(r io.Reader, w io.Writer) {
	var e = NewEngine()
	var scanner = bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for scanner.Scan() {
		var line = strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !e.handle(line, w) {
			break
		}
	}
}

func (e *Engine) handle(line string, w io.Writer) bool {
	var fields = strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	switch fields[0] {
	case "uci":
		fmt.Fprintf(w, "id name %s\n", engineName)
		fmt.Fprintf(w, "id author %s\n", engineAuthor)
		for _, o := range e.options.All() {
			fmt.Fprintln(w, o.UciString())
		}
		fmt.Fprintln(w, "uciok")
	case "isready":
		e.searchWG.Wait()
		fmt.Fprintln(w, "readyok")
	case "ucinewgame":
		e.searchWG.Wait()
		e.NewGame()
	case "setoption":
		e.handleSetOption(fields[1:], w)
	case "position":
		e.handlePosition(fields[1:])
	case "go":
		e.handleGo(fields[1:], w)
	case "stop":
		e.coordinator.Stop()
		e.searchWG.Wait()
	case "ponderhit":
		e.pondering = false
	case "quit":
		e.coordinator.Stop()
		e.searchWG.Wait()
		return false
	default:
		fmt.Fprintf(w, "info string unknown command %s\n", fields[0])
	}
	return true
}

func (e *Engine) handleSetOption(fields []string, w io.Writer) {
	var name, value string
	var mode = 0
	for _, f := range fields {
		switch f {
		case "name":
			mode = 1
			continue
		case "value":
			mode = 2
			continue
		}
		switch mode {
		case 1:
			if name != "" {
				name += " "
			}
			name += f
		case 2:
			if value != "" {
				value += " "
			}
			value += f
		}
	}
	if err := e.options.Set(name, value); err != nil {
		fmt.Fprintf(w, "info string %v\n", err)
	}
}

func (e *Engine) handlePosition(fields []string) {
	if len(fields) == 0 {
		return
	}
	var idx = 0
	if fields[0] == "startpos" {
		e.pos, _ = board.NewPositionFromFEN(board.InitialPositionFEN)
		idx = 1
	} else if fields[0] == "fen" {
		var fenFields []string
		idx = 1
		for idx < len(fields) && fields[idx] != "moves" {
			fenFields = append(fenFields, fields[idx])
			idx++
		}
		p, err := board.NewPositionFromFEN(strings.Join(fenFields, " "))
		if err != nil {
			return
		}
		e.pos = p
	}
	e.history = []uint64{e.pos.Key}
	if idx < len(fields) && fields[idx] == "moves" {
		idx++
		for ; idx < len(fields); idx++ {
			var m, ok = parseMove(&e.pos, fields[idx])
			if !ok {
				break
			}
			np, legal := e.pos.MakeMove(m)
			if !legal {
				break
			}
			e.pos = np
			e.history = append(e.history, e.pos.Key)
		}
	}
}

func parseMove(pos *board.Position, s string) (board.Move, bool) {
	for _, m := range board.LegalMoves(pos) {
		if m.String() == s {
			return m, true
		}
	}
	return board.MoveEmpty, false
}

// probeBook consults b for e.pos, honoring the "BestBookMove"-style
// toggle: best chooses the highest-weighted line deterministically,
// otherwise a book move is drawn by Polyglot's usual weighted-random
// pick so play still varies across games.
func probeBook(b *book.Book1, pos *board.Position, rng *rand.Rand, best bool) (board.Move, bool) {
	if b == nil {
		return board.MoveEmpty, false
	}
	if best {
		return b.ProbeBest(pos)
	}
	return b.Probe(pos, rng)
}

// probeExperience mirrors probeBook for the learning store: bestMove asks
// for the single highest-quality recorded line; otherwise a move is drawn
// uniformly among all recorded entries at least Experience Book Min Depth
// deep. Quality does not weight or filter that draw.
func (e *Engine) probeExperience() (board.Move, bool) {
	if e.experience == nil {
		return board.MoveEmpty, false
	}
	if e.expBestMove {
		entry, ok, err := e.experience.BestWeighted(e.pos.Key, e.expMinDepth, e.expEvalImp)
		if err != nil || !ok {
			return board.MoveEmpty, false
		}
		return entry.Move, true
	}
	entries, err := e.experience.Query(e.pos.Key)
	if err != nil || len(entries) == 0 {
		return board.MoveEmpty, false
	}
	var candidates []book.ExperienceEntry
	for _, entry := range entries {
		if entry.Depth >= e.expMinDepth {
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		return board.MoveEmpty, false
	}
	return candidates[e.rng.Intn(len(candidates))].Move, true
}

func (e *Engine) handleGo(fields []string, w io.Writer) {
	var lim = parseLimits(fields)
	var ply = len(e.history)

	if e.book1Depth == 0 || ply <= e.book1Depth*2 {
		if m, ok := probeBook(e.book1, &e.pos, e.rng, e.book1Best); ok {
			fmt.Fprintf(w, "bestmove %s\n", m.String())
			return
		}
	}
	if e.book2Depth == 0 || ply <= e.book2Depth*2 {
		if m, ok := probeBook(e.book2, &e.pos, e.rng, e.book1Best); ok {
			fmt.Fprintf(w, "bestmove %s\n", m.String())
			return
		}
	}
	if e.expMaxMoves == 0 || ply <= e.expMaxMoves*2 {
		if m, ok := e.probeExperience(); ok {
			fmt.Fprintf(w, "bestmove %s\n", m.String())
			return
		}
	}

	e.searchWG.Wait()
	e.searchWG.Add(1)
	go func() {
		defer e.searchWG.Done()
		var start = time.Now()
		var best = e.coordinator.Search(context.Background(), e.pos, e.history, lim, func(info search.Info) {
			e.printInfo(w, info, start)
		})
		if e.experience != nil && !e.expReadonly {
			e.experience.Record(e.pos.Key, best, 0, lim.Depth)
		}
		if best == board.MoveEmpty {
			fmt.Fprintln(w, "bestmove 0000")
		} else {
			fmt.Fprintf(w, "bestmove %s\n", best.String())
		}
	}()
}

func (e *Engine) printInfo(w io.Writer, info search.Info, start time.Time) {
	var elapsed = time.Since(start).Milliseconds()
	var nps int64
	if elapsed > 0 {
		nps = info.Nodes * 1000 / elapsed
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d seldepth %d multipv %d", info.Depth, info.SelDepth, maxInt(info.MultiPV, 1))
	if info.IsMate {
		var mateIn = (search.ValueMate - abs(info.Score) + 1) / 2
		if info.Score < 0 {
			mateIn = -mateIn
		}
		fmt.Fprintf(&sb, " score mate %d", mateIn)
	} else {
		fmt.Fprintf(&sb, " score cp %d", info.Score)
	}
	if o, ok := e.options.byName["UCI_ShowWDL"].(*BoolOption); ok && o.Value() {
		var win, draw, loss = winDrawLoss(info.Score)
		fmt.Fprintf(&sb, " wdl %d %d %d", win, draw, loss)
	}
	fmt.Fprintf(&sb, " nodes %d nps %d time %d hashfull %d", info.Nodes, nps, elapsed, e.tt.HashFull())
	if len(info.PV) > 0 {
		sb.WriteString(" pv")
		for _, m := range info.PV {
			sb.WriteByte(' ')
			sb.WriteString(m.String())
		}
	}
	fmt.Fprintln(w, sb.String())
}

// winDrawLoss turns a centipawn score into a permille win/draw/loss
// triple via a logistic win-rate model, the same shape as
// original_source/src/search.cpp's UCI::wdl annotation (search.cpp's
// own polynomial fit isn't in the retrieval pack, so this uses a
// standard fixed-scale logistic curve rather than reproducing
// Stockfish's exact per-material-count coefficients).
func winDrawLoss(score int) (win, draw, loss int) {
	const scale = 160.0
	// Two logistic curves, centered at +scale/2 and -scale/2, give a win
	// probability and a loss probability that each approach 1 far out on
	// their own side and leave the remainder, near cp 0, to the draw bucket.
	var winProb = 1.0 / (1.0 + math.Exp(-(float64(score)-scale/2)/scale*4))
	var lossProb = 1.0 / (1.0 + math.Exp((float64(score)+scale/2)/scale*4))
	win = int(winProb * 1000)
	loss = int(lossProb * 1000)
	if win+loss > 1000 {
		loss = 1000 - win
	}
	draw = 1000 - win - loss
	return win, draw, loss
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func parseLimits(fields []string) search.Limits {
	var lim search.Limits
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "wtime":
			i++
			lim.WhiteTime = atoiSafe(fields, i)
		case "btime":
			i++
			lim.BlackTime = atoiSafe(fields, i)
		case "winc":
			i++
			lim.WhiteInc = atoiSafe(fields, i)
		case "binc":
			i++
			lim.BlackInc = atoiSafe(fields, i)
		case "movestogo":
			i++
			lim.MovesToGo = atoiSafe(fields, i)
		case "depth":
			i++
			lim.Depth = atoiSafe(fields, i)
		case "nodes":
			i++
			lim.Nodes = int64(atoiSafe(fields, i))
		case "movetime":
			i++
			lim.MoveTime = atoiSafe(fields, i)
		case "mate":
			i++
			lim.Mate = atoiSafe(fields, i)
		case "infinite":
			lim.Infinite = true
		case "ponder":
			lim.Ponder = true
		}
	}
	return lim
}

func atoiSafe(fields []string, i int) int {
	if i >= len(fields) {
		return 0
	}
	v, err := strconv.Atoi(fields[i])
	if err != nil {
		return 0
	}
	return v
}

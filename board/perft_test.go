package board

import "testing"

func perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var count uint64
	var pseudo = GenerateMoves(p, make([]Move, 0, MaxMoves))
	for _, m := range pseudo {
		np, ok := p.MakeMove(m)
		if !ok {
			continue
		}
		count += perft(&np, depth-1)
	}
	return count
}

// Reference leaf counts are the standard perft values for these
// positions, matching common/perft_test.go.
func TestPerftStartPos(t *testing.T) {
	var cases = []struct {
		depth int
		nodes uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		{5, 4865609},
	}
	for _, c := range cases {
		p, err := NewPositionFromFEN(InitialPositionFEN)
		if err != nil {
			t.Fatalf("parse startpos: %v", err)
		}
		var got = perft(&p, c.depth)
		if got != c.nodes {
			t.Errorf("perft(startpos, %d) = %d, want %d", c.depth, got, c.nodes)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	const fen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse kiwipete: %v", err)
	}
	var cases = []struct {
		depth int
		nodes uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}
	for _, c := range cases {
		var got = perft(&p, c.depth)
		if got != c.nodes {
			t.Errorf("perft(kiwipete, %d) = %d, want %d", c.depth, got, c.nodes)
		}
	}
}

func TestPerftEnPassantAndPromotion(t *testing.T) {
	const fen = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	p, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("parse fen: %v", err)
	}
	var cases = []struct {
		depth int
		nodes uint64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
	}
	for _, c := range cases {
		var got = perft(&p, c.depth)
		if got != c.nodes {
			t.Errorf("perft(ep/promo, %d) = %d, want %d", c.depth, got, c.nodes)
		}
	}
}

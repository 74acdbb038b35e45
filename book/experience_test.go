package book

import (
	"testing"

	"github.com/opensourcechess/pax/board"
)

func openTestStore(t *testing.T) *ExperienceStore {
	t.Helper()
	store, err := OpenExperienceStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenExperienceStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestExperienceRecordAndQuery(t *testing.T) {
	var store = openTestStore(t)
	var key = uint64(0xC0FFEE)
	var move = board.Move(0x1234)

	if err := store.Record(key, move, 35, 10); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := store.Query(key)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Query returned %d entries, want 1", len(entries))
	}
	if entries[0].Move != move || entries[0].Value != 35 || entries[0].Depth != 10 || entries[0].Count != 1 {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestExperienceRecordDeepensExistingMove(t *testing.T) {
	var store = openTestStore(t)
	var key = uint64(42)
	var move = board.Move(7)

	must(t, store.Record(key, move, 10, 5))
	must(t, store.Record(key, move, 40, 12))

	entries, err := store.Query(key)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Record with the same move duplicated the chain: %+v", entries)
	}
	if entries[0].Depth != 12 || entries[0].Value != 40 || entries[0].Count != 2 {
		t.Fatalf("deepened entry wrong: %+v", entries[0])
	}
}

func TestExperienceRecordIgnoresShallowerRescan(t *testing.T) {
	var store = openTestStore(t)
	var key = uint64(99)
	var move = board.Move(3)

	must(t, store.Record(key, move, 100, 20))
	must(t, store.Record(key, move, -100, 4))

	entries, err := store.Query(key)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if entries[0].Depth != 20 || entries[0].Value != 100 {
		t.Fatalf("shallower search overwrote deeper result: %+v", entries[0])
	}
	if entries[0].Count != 2 {
		t.Fatalf("count not incremented: %+v", entries[0])
	}
}

func TestExperienceQueryOrdersByQuality(t *testing.T) {
	var store = openTestStore(t)
	var key = uint64(7)

	must(t, store.Record(key, board.Move(1), 10, 5))
	must(t, store.Record(key, board.Move(2), 500, 20))

	entries, err := store.Query(key)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Move != board.Move(2) {
		t.Fatalf("best entry should be the deeper, higher-eval move, got %+v", entries[0])
	}
}

func TestExperienceBestOnEmptyKey(t *testing.T) {
	var store = openTestStore(t)
	if _, ok, err := store.Best(12345); ok || err != nil {
		t.Fatalf("Best on unseen key = (_, %v, %v), want (_, false, nil)", ok, err)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

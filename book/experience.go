package book

import (
	"encoding/binary"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/opensourcechess/pax/board"
)

// ExperienceEntry is one recorded search result for a position: the
// move played, the score it earned, the depth it was searched to, and
// how many times it has been recorded (used to weight repeated
// agreement between games higher than a single lucky search).
type ExperienceEntry struct {
	Move  board.Move
	Value int
	Depth int
	Count int
}

// ExperienceStore is the persistent learning store described in spec's
// external-collaborator section: a chain of ExperienceEntry values per
// position key, merged and re-ranked across process runs. BadgerDB
// (hailam-chessplay's embedded KV dependency) supplies the durable
// storage; this type owns the chain-merge and quality-ranking logic on
// top of it.
type ExperienceStore struct {
	db *badger.DB
}

func OpenExperienceStore(dir string) (*ExperienceStore, error) {
	var opts = badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("book: open experience store at %s: %w", dir, err)
	}
	return &ExperienceStore{db: db}, nil
}

func (s *ExperienceStore) Close() error { return s.db.Close() }

func experienceKey(posKey uint64) []byte {
	var b = make([]byte, 8)
	binary.BigEndian.PutUint64(b, posKey)
	return b
}

const experienceRecordSize = 8 + 8 + 4 + 4 // move + value + depth + count, each field varint-free fixed width

func encodeEntry(e ExperienceEntry) []byte {
	var b = make([]byte, experienceRecordSize)
	binary.BigEndian.PutUint64(b[0:8], uint64(int64(e.Move)))
	binary.BigEndian.PutUint64(b[8:16], uint64(int64(e.Value)))
	binary.BigEndian.PutUint32(b[16:20], uint32(e.Depth))
	binary.BigEndian.PutUint32(b[20:24], uint32(e.Count))
	return b
}

func decodeChain(raw []byte) []ExperienceEntry {
	var out []ExperienceEntry
	for off := 0; off+experienceRecordSize <= len(raw); off += experienceRecordSize {
		var chunk = raw[off : off+experienceRecordSize]
		out = append(out, ExperienceEntry{
			Move:  board.Move(int32(binary.BigEndian.Uint64(chunk[0:8]))),
			Value: int(int64(binary.BigEndian.Uint64(chunk[8:16]))),
			Depth: int(binary.BigEndian.Uint32(chunk[16:20])),
			Count: int(binary.BigEndian.Uint32(chunk[20:24])),
		})
	}
	return out
}

func encodeChain(entries []ExperienceEntry) []byte {
	var out = make([]byte, 0, len(entries)*experienceRecordSize)
	for _, e := range entries {
		out = append(out, encodeEntry(e)...)
	}
	return out
}

// Record merges a new search result into the chain for posKey: if the
// same move is already present it is deepened (score/depth updated,
// count incremented) rather than duplicated, matching the "linked chain
// per key" shape spec's book/experience contract describes.
func (s *ExperienceStore) Record(posKey uint64, move board.Move, value, depth int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var chain []ExperienceEntry
		item, err := txn.Get(experienceKey(posKey))
		if err == nil {
			err = item.Value(func(v []byte) error {
				chain = decodeChain(v)
				return nil
			})
			if err != nil {
				return err
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		var found = false
		for i := range chain {
			if chain[i].Move == move {
				if depth >= chain[i].Depth {
					chain[i].Value = value
					chain[i].Depth = depth
				}
				chain[i].Count++
				found = true
				break
			}
		}
		if !found {
			chain = append(chain, ExperienceEntry{Move: move, Value: value, Depth: depth, Count: 1})
		}

		return txn.Set(experienceKey(posKey), encodeChain(chain))
	})
}

// Query returns every recorded move for posKey, sorted by quality: the
// resolution of spec's Open Question about the redundant experience-list
// sort -- performed exactly once, here, rather than once at write time
// and again at read time.
func (s *ExperienceStore) Query(posKey uint64) ([]ExperienceEntry, error) {
	var chain []ExperienceEntry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(experienceKey(posKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			chain = decodeChain(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(chain, func(i, j int) bool {
		return quality(chain[i]) > quality(chain[j])
	})
	return chain, nil
}

// quality favors a move that has both been searched deep and confirmed
// across multiple recordings over one that merely posted a high score
// once, following the "quality(pos, evalImportance)" judgment spec's
// experience-store section names.
func quality(e ExperienceEntry) int {
	var evalImportance = e.Value
	if evalImportance > 300 {
		evalImportance = 300
	}
	if evalImportance < -300 {
		evalImportance = -300
	}
	return e.Depth*10 + e.Count*5 + evalImportance/10
}

// Best returns the highest-quality recorded move for posKey, if any.
func (s *ExperienceStore) Best(posKey uint64) (ExperienceEntry, bool, error) {
	entries, err := s.Query(posKey)
	if err != nil || len(entries) == 0 {
		return ExperienceEntry{}, false, err
	}
	return entries[0], true, nil
}

// BestWeighted is Best filtered by "Experience Book Min Depth" and
// re-ranked by "Experience Book Eval Importance": entries searched
// shallower than minDepth are discarded outright, and evalImportance
// scales how much a recorded score (rather than its depth/count) sways
// the ranking, up from quality's fixed weighting.
func (s *ExperienceStore) BestWeighted(posKey uint64, minDepth, evalImportance int) (ExperienceEntry, bool, error) {
	entries, err := s.Query(posKey)
	if err != nil {
		return ExperienceEntry{}, false, err
	}
	var filtered = entries[:0]
	for _, e := range entries {
		if e.Depth >= minDepth {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == 0 {
		return ExperienceEntry{}, false, nil
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return qualityWeighted(filtered[i], evalImportance) > qualityWeighted(filtered[j], evalImportance)
	})
	return filtered[0], true, nil
}

func qualityWeighted(e ExperienceEntry, evalImportance int) int {
	var v = e.Value
	if v > 300 {
		v = 300
	}
	if v < -300 {
		v = -300
	}
	return e.Depth*10 + e.Count*5 + v*evalImportance/100
}

package search

import (
	"sync/atomic"
)

// breadcrumbCount is a small fixed table: workers claim a slot for the
// position key they are currently searching so siblings can detect
// they'd be duplicating work on the same subtree and reduce it harder. It
// is opportunistic, not a correctness mechanism -- a missed or stale
// claim just means the overlap goes undetected, never a wrong result.
const breadcrumbCount = 8192

type breadcrumb struct {
	key    uint64
	worker int32
}

// Breadcrumbs is the lock-free registry shared by every worker in a
// Coordinator, using the same CAS-gated slot idiom as
// TranspositionTable, but keyed by position rather than clustered.
type Breadcrumbs struct {
	slots [breadcrumbCount]breadcrumb
}

func NewBreadcrumbs() *Breadcrumbs { return &Breadcrumbs{} }

func (b *Breadcrumbs) index(key uint64) uint64 { return key % breadcrumbCount }

// TryClaim marks key as being searched by workerID. It returns the
// worker ID that already holds the slot (or -1 if the slot was free and
// is now claimed by the caller); a non-negative, different worker ID
// means the caller is probably duplicating that worker's subtree.
func (b *Breadcrumbs) TryClaim(key uint64, workerID int) int {
	var slot = &b.slots[b.index(key)]
	var curKey = atomic.LoadUint64(&slot.key)
	var curWorker = atomic.LoadInt32(&slot.worker)
	if curKey == key && curWorker >= 0 && curWorker != int32(workerID) {
		return int(curWorker)
	}
	atomic.StoreUint64(&slot.key, key)
	atomic.StoreInt32(&slot.worker, int32(workerID))
	return -1
}

// Release clears a slot if it still belongs to workerID for key, so a
// finished subtree doesn't keep discouraging other workers from
// exploring it long after the fact.
func (b *Breadcrumbs) Release(key uint64, workerID int) {
	var slot = &b.slots[b.index(key)]
	if atomic.LoadUint64(&slot.key) == key && atomic.LoadInt32(&slot.worker) == int32(workerID) {
		atomic.StoreInt32(&slot.worker, -1)
	}
}

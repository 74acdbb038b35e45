package search

import "testing"

func TestBreadcrumbsClaimDetectsOverlap(t *testing.T) {
	var b = NewBreadcrumbs()
	var key = uint64(0xdeadbeef)

	if holder := b.TryClaim(key, 0); holder != -1 {
		t.Fatalf("expected the first claim to succeed, got holder %d", holder)
	}
	if holder := b.TryClaim(key, 1); holder != 0 {
		t.Errorf("expected worker 1 to see worker 0's claim, got %d", holder)
	}
}

func TestBreadcrumbsReleaseFreesSlotForOwner(t *testing.T) {
	var b = NewBreadcrumbs()
	var key = uint64(0x1)

	b.TryClaim(key, 0)
	b.Release(key, 0)
	if holder := b.TryClaim(key, 1); holder != -1 {
		t.Errorf("expected slot to be free after release, got holder %d", holder)
	}
}

func TestBreadcrumbsReleaseIgnoresNonOwner(t *testing.T) {
	var b = NewBreadcrumbs()
	var key = uint64(0x2)

	b.TryClaim(key, 0)
	b.Release(key, 1)
	if holder := b.TryClaim(key, 2); holder != 0 {
		t.Errorf("release by a non-owning worker should not clear the slot, got holder %d", holder)
	}
}

package imagecache

import (
	"image"
	"testing"
)

func testImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestLRUEntryBoundEvictsLeastRecent(t *testing.T) {
	lru := newCostLRU(2, 1<<30)

	lru.Add("a", testImage(1, 1), 4)
	lru.Add("b", testImage(1, 1), 4)
	evicted := lru.Add("c", testImage(1, 1), 4)

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Fatalf("expected a evicted, got %v", evicted)
	}
	if _, ok := lru.Get("a"); ok {
		t.Fatal("a should be gone")
	}
	if _, ok := lru.Get("b"); !ok {
		t.Fatal("b should remain")
	}
}

func TestLRUGetRefreshesRecency(t *testing.T) {
	lru := newCostLRU(2, 1<<30)

	lru.Add("a", testImage(1, 1), 4)
	lru.Add("b", testImage(1, 1), 4)
	if _, ok := lru.Get("a"); !ok {
		t.Fatal("expected a present")
	}
	evicted := lru.Add("c", testImage(1, 1), 4)

	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("expected b evicted after refreshing a, got %v", evicted)
	}
}

func TestLRUCostBoundEvicts(t *testing.T) {
	lru := newCostLRU(100, 10)

	lru.Add("a", testImage(1, 1), 4)
	lru.Add("b", testImage(1, 1), 4)
	evicted := lru.Add("c", testImage(1, 1), 4)

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Fatalf("expected a evicted for cost, got %v", evicted)
	}
	if lru.Cost() != 8 {
		t.Fatalf("expected cost 8, got %d", lru.Cost())
	}
}

func TestLRUUpdateAdjustsCost(t *testing.T) {
	lru := newCostLRU(100, 100)

	lru.Add("a", testImage(1, 1), 10)
	lru.Add("a", testImage(2, 2), 16)

	if lru.Len() != 1 {
		t.Fatalf("expected single entry, got %d", lru.Len())
	}
	if lru.Cost() != 16 {
		t.Fatalf("expected cost 16, got %d", lru.Cost())
	}
}

func TestLRUOversizedEntryAdmittedAlone(t *testing.T) {
	lru := newCostLRU(100, 10)

	lru.Add("a", testImage(1, 1), 4)
	evicted := lru.Add("big", testImage(10, 10), 400)

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Fatalf("expected only a evicted, got %v", evicted)
	}
	if _, ok := lru.Get("big"); !ok {
		t.Fatal("oversized entry must stay resident")
	}
}

func TestLRURemoveAndClear(t *testing.T) {
	lru := newCostLRU(10, 1<<30)

	lru.Add("a", testImage(1, 1), 4)
	lru.Add("b", testImage(1, 1), 4)

	lru.Remove("a")
	if _, ok := lru.Get("a"); ok {
		t.Fatal("a should be removed")
	}
	lru.Remove("a") // no-op

	lru.Clear()
	if lru.Len() != 0 || lru.Cost() != 0 {
		t.Fatalf("expected empty cache, len=%d cost=%d", lru.Len(), lru.Cost())
	}
}

package imagecache

import (
	"container/list"
	"image"
)

type lruEntry struct {
	key  string
	img  image.Image
	cost int64
}

// costLRU is a bounded least-recently-used cache with per-entry byte cost.
// Insertions that push the cache over either the entry bound or the cost
// bound evict from the least recently touched end until both bounds hold
// again. The entry being inserted is never its own victim, so a single
// oversized entry is admitted alone rather than thrashing.
//
// Not safe for concurrent use; Cache serializes access.
type costLRU struct {
	maxEntries int
	maxCost    int64

	ll    *list.List
	index map[string]*list.Element
	cost  int64
}

func newCostLRU(maxEntries int, maxCost int64) *costLRU {
	return &costLRU{
		maxEntries: maxEntries,
		maxCost:    maxCost,
		ll:         list.New(),
		index:      map[string]*list.Element{},
	}
}

// Get returns the cached image and refreshes its recency.
func (c *costLRU) Get(key string) (image.Image, bool) {
	elem, ok := c.index[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(elem)
	return elem.Value.(*lruEntry).img, true
}

// Add inserts or replaces an entry and returns the keys evicted to stay
// within bounds.
func (c *costLRU) Add(key string, img image.Image, cost int64) []string {
	if elem, ok := c.index[key]; ok {
		entry := elem.Value.(*lruEntry)
		c.cost += cost - entry.cost
		entry.img = img
		entry.cost = cost
		c.ll.MoveToFront(elem)
		return c.evictOver()
	}

	elem := c.ll.PushFront(&lruEntry{key: key, img: img, cost: cost})
	c.index[key] = elem
	c.cost += cost
	return c.evictOver()
}

// Remove drops an entry if present.
func (c *costLRU) Remove(key string) {
	if elem, ok := c.index[key]; ok {
		c.removeElement(elem)
	}
}

// Clear drops every entry.
func (c *costLRU) Clear() {
	c.ll.Init()
	c.index = map[string]*list.Element{}
	c.cost = 0
}

func (c *costLRU) Len() int { return c.ll.Len() }

func (c *costLRU) Cost() int64 { return c.cost }

func (c *costLRU) evictOver() []string {
	var evicted []string
	for c.ll.Len() > 1 && (c.ll.Len() > c.maxEntries || c.cost > c.maxCost) {
		back := c.ll.Back()
		evicted = append(evicted, back.Value.(*lruEntry).key)
		c.removeElement(back)
	}
	if c.ll.Len() > c.maxEntries {
		// maxEntries == 0: the freshest entry goes too.
		back := c.ll.Back()
		evicted = append(evicted, back.Value.(*lruEntry).key)
		c.removeElement(back)
	}
	return evicted
}

func (c *costLRU) removeElement(elem *list.Element) {
	entry := elem.Value.(*lruEntry)
	c.ll.Remove(elem)
	delete(c.index, entry.key)
	c.cost -= entry.cost
}

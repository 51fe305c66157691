// Package imagecache serves decoded image variants from a two-tier cache:
// bounded in-memory LRU tiers in front of an unbounded disk tier of
// JPEG-encoded files. Every entry is a rebuildable projection of a catalog
// blob, so entries may vanish at any time without loss.
package imagecache

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	_ "image/gif"
	_ "image/png"

	"github.com/sourcegraph/conc/pool"
)

// Variant is a derived image size class. Each variant has its own memory
// tier and disk suffix.
type Variant string

const (
	VariantThumbnail Variant = "thumb"
	VariantPreview   Variant = "preview"
)

const jpegQuality = 85

// Options configures a Cache.
type Options struct {
	// Dir is the disk tier directory.
	Dir string

	ThumbMaxEntries   int
	ThumbMaxBytes     int64
	PreviewMaxEntries int
	PreviewMaxBytes   int64

	// Workers bounds the background disk writers.
	Workers int

	Logger *slog.Logger
}

// Cache is the two-tier image variant cache.
//
// Disk writes are fire-and-forget on a bounded worker pool with no ordering
// guarantee relative to memory-tier state: a get after a memory eviction may
// miss both tiers while a write is still in flight. That window is accepted;
// callers regenerate from the catalog blob.
type Cache struct {
	dir    string
	logger *slog.Logger

	mu       sync.Mutex
	thumbs   *costLRU
	previews *costLRU

	writers *pool.Pool
	flushed atomic.Bool
}

// New creates a cache with its disk tier rooted at opts.Dir.
func New(opts Options) (*Cache, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, fmt.Errorf("image cache directory is required")
	}
	abs, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 2
	}

	return &Cache{
		dir:      abs,
		logger:   logger,
		thumbs:   newCostLRU(opts.ThumbMaxEntries, opts.ThumbMaxBytes),
		previews: newCostLRU(opts.PreviewMaxEntries, opts.PreviewMaxBytes),
		writers:  pool.New().WithMaxGoroutines(workers),
	}, nil
}

// Get returns the cached variant for an item. A memory miss falls through
// to the disk tier; a disk hit is decoded and promoted back into memory.
// A miss on both tiers returns ok == false, which is a normal outcome.
func (c *Cache) Get(itemID string, variant Variant) (image.Image, bool) {
	tier := c.tier(variant)
	if tier == nil {
		return nil, false
	}

	c.mu.Lock()
	if img, ok := tier.Get(itemID); ok {
		c.mu.Unlock()
		return img, true
	}
	c.mu.Unlock()

	data, err := os.ReadFile(c.diskPath(itemID, variant))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("image cache disk read failed", "id", itemID, "variant", variant, "error", err)
		}
		return nil, false
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		c.logger.Warn("image cache disk entry undecodable", "id", itemID, "variant", variant, "error", err)
		return nil, false
	}

	c.mu.Lock()
	tier.Add(itemID, img, decodedCost(img))
	c.mu.Unlock()
	return img, true
}

// Store inserts a decoded image into the memory tier synchronously and
// schedules the disk-tier write in the background.
func (c *Cache) Store(img image.Image, itemID string, variant Variant) {
	tier := c.tier(variant)
	if tier == nil || img == nil {
		return
	}

	c.mu.Lock()
	tier.Add(itemID, img, decodedCost(img))
	c.mu.Unlock()

	if c.flushed.Load() {
		// Worker pool is drained after PerformCleanup; write inline.
		c.writeDiskEntry(img, itemID, variant)
		return
	}
	c.writers.Go(func() {
		c.writeDiskEntry(img, itemID, variant)
	})
}

// GenerateThumbnail downscales src to the thumbnail bound, stores it, and
// returns the variant.
func (c *Cache) GenerateThumbnail(src image.Image, itemID string) image.Image {
	thumb := downscale(src, ThumbnailMaxSide)
	c.Store(thumb, itemID, VariantThumbnail)
	return thumb
}

// GeneratePreview downscales src to the preview bound, stores it, and
// returns the variant.
func (c *Cache) GeneratePreview(src image.Image, itemID string) image.Image {
	preview := downscale(src, PreviewMaxSide)
	c.Store(preview, itemID, VariantPreview)
	return preview
}

// Remove drops every variant of an item from both tiers.
func (c *Cache) Remove(itemID string) {
	c.mu.Lock()
	c.thumbs.Remove(itemID)
	c.previews.Remove(itemID)
	c.mu.Unlock()

	for _, variant := range []Variant{VariantThumbnail, VariantPreview} {
		if err := os.Remove(c.diskPath(itemID, variant)); err != nil && !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("image cache disk remove failed", "id", itemID, "variant", variant, "error", err)
		}
	}
}

// ClearAll empties both memory tiers and the disk tier. A write still in
// flight may land after the clear; the stale file is harmless and replaced
// on the next store.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	c.thumbs.Clear()
	c.previews.Clear()
	c.mu.Unlock()

	if err := os.RemoveAll(c.dir); err != nil {
		c.logger.Warn("image cache clear failed", "error", err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.logger.Warn("image cache recreate failed", "error", err)
	}
}

// HandleMemoryWarning is the memory-pressure hook: drop everything.
func (c *Cache) HandleMemoryWarning() {
	c.ClearAll()
}

// PerformCleanup is the suspend/terminate hook: wait for pending disk
// writes. Stores after cleanup write their disk entry inline.
func (c *Cache) PerformCleanup() {
	if c.flushed.Swap(true) {
		return
	}
	c.writers.Wait()
}

func (c *Cache) tier(variant Variant) *costLRU {
	switch variant {
	case VariantThumbnail:
		return c.thumbs
	case VariantPreview:
		return c.previews
	default:
		return nil
	}
}

func (c *Cache) diskPath(itemID string, variant Variant) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s.jpg", itemID, variant))
}

// writeDiskEntry encodes img as JPEG and lands it atomically so a reader
// never sees a truncated file. Failures are logged and dropped; the disk
// tier carries no correctness obligation.
func (c *Cache) writeDiskEntry(img image.Image, itemID string, variant Variant) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		c.logger.Warn("image cache encode failed", "id", itemID, "variant", variant, "error", err)
		return
	}

	tmp, err := os.CreateTemp(c.dir, "write-*")
	if err != nil {
		c.logger.Warn("image cache disk write failed", "id", itemID, "variant", variant, "error", err)
		return
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		c.logger.Warn("image cache disk write failed", "id", itemID, "variant", variant, "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		c.logger.Warn("image cache disk write failed", "id", itemID, "variant", variant, "error", err)
		return
	}
	if err := os.Rename(tmpPath, c.diskPath(itemID, variant)); err != nil {
		_ = os.Remove(tmpPath)
		c.logger.Warn("image cache disk write failed", "id", itemID, "variant", variant, "error", err)
	}
}

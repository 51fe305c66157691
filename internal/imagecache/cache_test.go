package imagecache

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func testCache(t *testing.T, opts Options) *Cache {
	t.Helper()
	if opts.Dir == "" {
		opts.Dir = t.TempDir()
	}
	if opts.ThumbMaxEntries == 0 {
		opts.ThumbMaxEntries = 16
	}
	if opts.ThumbMaxBytes == 0 {
		opts.ThumbMaxBytes = 1 << 24
	}
	if opts.PreviewMaxEntries == 0 {
		opts.PreviewMaxEntries = 16
	}
	if opts.PreviewMaxBytes == 0 {
		opts.PreviewMaxBytes = 1 << 26
	}
	cache, err := New(opts)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(cache.PerformCleanup)
	return cache
}

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

func TestStoreThenGetHitsMemory(t *testing.T) {
	cache := testCache(t, Options{})

	cache.Store(solidImage(64, 32), "cl-ab12", VariantThumbnail)

	got, ok := cache.Get("cl-ab12", VariantThumbnail)
	if !ok {
		t.Fatal("expected memory hit immediately after store")
	}
	if got.Bounds().Dx() != 64 || got.Bounds().Dy() != 32 {
		t.Fatalf("unexpected dimensions: %v", got.Bounds())
	}
}

func TestGetMissIsNotAnError(t *testing.T) {
	cache := testCache(t, Options{})

	if _, ok := cache.Get("cl-none", VariantPreview); ok {
		t.Fatal("expected miss")
	}
	if _, ok := cache.Get("cl-none", Variant("bogus")); ok {
		t.Fatal("unknown variant must miss")
	}
}

func TestDiskHitPromotesToMemory(t *testing.T) {
	cache := testCache(t, Options{ThumbMaxEntries: 1})

	cache.Store(solidImage(40, 40), "cl-old", VariantThumbnail)
	cache.Store(solidImage(50, 50), "cl-new", VariantThumbnail)
	cache.PerformCleanup() // flush disk writes

	// cl-old was evicted from the single-entry memory tier but survives on
	// disk.
	cache.mu.Lock()
	_, inMemory := cache.thumbs.index["cl-old"]
	cache.mu.Unlock()
	if inMemory {
		t.Fatal("expected cl-old evicted from memory tier")
	}

	got, ok := cache.Get("cl-old", VariantThumbnail)
	if !ok {
		t.Fatal("expected disk-tier hit")
	}
	if got.Bounds().Dx() != 40 || got.Bounds().Dy() != 40 {
		t.Fatalf("unexpected dimensions after disk promotion: %v", got.Bounds())
	}

	cache.mu.Lock()
	_, inMemory = cache.thumbs.index["cl-old"]
	cache.mu.Unlock()
	if !inMemory {
		t.Fatal("disk hit must repopulate the memory tier")
	}
}

func TestGenerateThumbnailDownscalesAndStores(t *testing.T) {
	cache := testCache(t, Options{})

	thumb := cache.GenerateThumbnail(solidImage(960, 480), "cl-big")
	if thumb.Bounds().Dx() != ThumbnailMaxSide {
		t.Fatalf("expected width %d, got %d", ThumbnailMaxSide, thumb.Bounds().Dx())
	}

	got, ok := cache.Get("cl-big", VariantThumbnail)
	if !ok {
		t.Fatal("expected stored thumbnail")
	}
	if got.Bounds() != thumb.Bounds() {
		t.Fatalf("stored variant has different bounds: %v vs %v", got.Bounds(), thumb.Bounds())
	}
}

func TestGeneratePreviewKeepsSmallImages(t *testing.T) {
	cache := testCache(t, Options{})

	preview := cache.GeneratePreview(solidImage(100, 80), "cl-small")
	if preview.Bounds().Dx() != 100 || preview.Bounds().Dy() != 80 {
		t.Fatalf("small image must not be upscaled: %v", preview.Bounds())
	}
}

func TestRemoveDropsBothTiers(t *testing.T) {
	cache := testCache(t, Options{})

	cache.Store(solidImage(30, 30), "cl-gone", VariantThumbnail)
	cache.Store(solidImage(120, 120), "cl-gone", VariantPreview)
	cache.PerformCleanup()

	cache.Remove("cl-gone")

	if _, ok := cache.Get("cl-gone", VariantThumbnail); ok {
		t.Fatal("thumbnail should be gone")
	}
	if _, ok := cache.Get("cl-gone", VariantPreview); ok {
		t.Fatal("preview should be gone")
	}
	if _, err := os.Stat(filepath.Join(cache.dir, "cl-gone_thumb.jpg")); !os.IsNotExist(err) {
		t.Fatal("thumbnail disk entry should be gone")
	}
}

func TestClearAllEmptiesDiskTier(t *testing.T) {
	cache := testCache(t, Options{})

	cache.Store(solidImage(30, 30), "cl-a", VariantThumbnail)
	cache.Store(solidImage(30, 30), "cl-b", VariantPreview)
	cache.PerformCleanup()

	cache.ClearAll()

	if _, ok := cache.Get("cl-a", VariantThumbnail); ok {
		t.Fatal("expected empty cache after ClearAll")
	}
	entries, err := os.ReadDir(cache.dir)
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty disk tier, found %d entries", len(entries))
	}
}

func TestStoreAfterCleanupWritesInline(t *testing.T) {
	cache := testCache(t, Options{})
	cache.PerformCleanup()

	cache.Store(solidImage(20, 20), "cl-late", VariantThumbnail)

	if _, err := os.Stat(filepath.Join(cache.dir, "cl-late_thumb.jpg")); err != nil {
		t.Fatalf("expected inline disk write after cleanup: %v", err)
	}
}

package main

import (
	"clipvault/internal/catalog"
	"clipvault/internal/config"
	"clipvault/internal/imagecache"
)

// withServices constructs the catalog engine and image cache from config,
// runs fn, and tears both down: the cache flushes its pending disk writes
// and the engine makes a final persistence attempt.
func withServices(cfg *config.Config, fn func(*catalog.Engine, *imagecache.Cache) error) error {
	baseDir, err := cfg.EffectiveBaseDir()
	if err != nil {
		return err
	}
	cacheDir, err := cfg.EffectiveCacheDir()
	if err != nil {
		return err
	}

	cache, err := imagecache.New(imagecache.Options{
		Dir:               cacheDir,
		ThumbMaxEntries:   cfg.ImageCache.ThumbMaxEntries,
		ThumbMaxBytes:     cfg.ImageCache.ThumbMaxBytes,
		PreviewMaxEntries: cfg.ImageCache.PreviewMaxEntries,
		PreviewMaxBytes:   cfg.ImageCache.PreviewMaxBytes,
		Workers:           cfg.ImageCache.Workers,
	})
	if err != nil {
		return err
	}
	defer cache.PerformCleanup()

	engine, err := catalog.Open(catalog.Options{
		BaseDir:         baseDir,
		MaxItems:        cfg.MaxItems,
		DiskQuota:       cfg.DiskQuotaBytes,
		OnRecordRemoved: cache.Remove,
	})
	if err != nil {
		return err
	}

	runErr := fn(engine, cache)
	if closeErr := engine.Close(); runErr == nil {
		runErr = closeErr
	}
	return runErr
}

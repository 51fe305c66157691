package main

import (
	"bytes"
	"image"
	"log/slog"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
	"clipvault/internal/config"
	"clipvault/internal/imagecache"
	"clipvault/internal/models"
)

func newGCCmd(cfg *config.Config) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Rebuild the derived-image cache from stored clips",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cfg, func(engine *catalog.Engine, cache *imagecache.Cache) error {
				if purge {
					cache.ClearAll()
				}

				p := pool.New().WithMaxGoroutines(cfg.ImageCache.Workers)
				rebuilt := 0
				for _, record := range engine.Snapshot() {
					if record.Kind != models.KindImage {
						continue
					}
					record := record
					rebuilt++
					p.Go(func() {
						payload, ok, err := engine.Content(record)
						if err != nil || !ok {
							slog.Warn("skipping unreadable image clip", "id", record.ID, "error", err)
							return
						}
						img, _, err := image.Decode(bytes.NewReader(payload.Image))
						if err != nil {
							slog.Warn("skipping undecodable image clip", "id", record.ID, "error", err)
							return
						}
						cache.GenerateThumbnail(img, record.ID)
						cache.GeneratePreview(img, record.ID)
					})
				}
				p.Wait()

				return writePlain("rebuilt variants for %d image clip(s)\n", rebuilt)
			})
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "clear the cache before rebuilding")

	return cmd
}

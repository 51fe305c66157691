package main

import (
	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
	"clipvault/internal/config"
	"clipvault/internal/imagecache"
	"clipvault/internal/models"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		kind       string
		pinnedOnly bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clips, pinned first, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cfg, func(engine *catalog.Engine, _ *imagecache.Cache) error {
				records := engine.Snapshot()

				if kind != "" {
					parsed, err := models.ParseKind(kind)
					if err != nil {
						return err
					}
					records = filterRecords(records, func(r models.ClipRecord) bool { return r.Kind == parsed })
				}
				if pinnedOnly {
					records = filterRecords(records, func(r models.ClipRecord) bool { return r.Pinned })
				}
				if limit > 0 && len(records) > limit {
					records = records[:limit]
				}

				if *jsonOutput {
					return writeJSON(records)
				}
				return writeRecordList(records)
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "kind filter (text, image, file)")
	cmd.Flags().BoolVar(&pinnedOnly, "pinned", false, "pinned clips only")
	cmd.Flags().IntVar(&limit, "limit", 0, "limit results")

	return cmd
}

func filterRecords(records []models.ClipRecord, keep func(models.ClipRecord) bool) []models.ClipRecord {
	out := records[:0]
	for _, record := range records {
		if keep(record) {
			out = append(out, record)
		}
	}
	return out
}

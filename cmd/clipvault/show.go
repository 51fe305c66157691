package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
	"clipvault/internal/config"
	"clipvault/internal/imagecache"
	"clipvault/internal/models"
)

func newShowCmd(cfg *config.Config) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a clip's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cfg, func(engine *catalog.Engine, _ *imagecache.Cache) error {
				record, ok := findRecord(engine, args[0])
				if !ok {
					return catalog.ErrNotFound
				}

				payload, present, err := engine.Content(record)
				if err != nil {
					return err
				}
				if !present {
					return fmt.Errorf("content for %s is gone", record.ID)
				}

				switch payload.Kind {
				case models.KindText:
					return writePlain("%s\n", payload.Text)
				case models.KindImage:
					if outputPath == "" {
						return writePlain("%s: image, %d bytes (use --output to write it)\n", record.ID, len(payload.Image))
					}
					return os.WriteFile(outputPath, payload.Image, 0o644)
				case models.KindFile:
					if err := writePlain("%s\n", payload.Files.DisplayName); err != nil {
						return err
					}
					for _, path := range payload.Files.Paths {
						if err := writePlain("  %s\n", path); err != nil {
							return err
						}
					}
					return nil
				default:
					return fmt.Errorf("unknown clip kind: %s", payload.Kind)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write image content to a file")

	return cmd
}

func findRecord(engine *catalog.Engine, id string) (models.ClipRecord, bool) {
	for _, record := range engine.Snapshot() {
		if record.ID == id {
			return record, true
		}
	}
	return models.ClipRecord{}, false
}

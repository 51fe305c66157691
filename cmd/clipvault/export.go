package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
	"clipvault/internal/config"
	"clipvault/internal/format"
	"clipvault/internal/imagecache"
	"clipvault/internal/models"
)

type exportDocument struct {
	Records int                 `yaml:"records"`
	Pinned  int                 `yaml:"pinned"`
	Clips   []models.ClipRecord `yaml:"clips"`
}

func newExportCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput != nil && *jsonOutput {
				return fmt.Errorf("export always emits YAML; remove --json")
			}
			return withServices(cfg, func(engine *catalog.Engine, _ *imagecache.Cache) error {
				w := os.Stdout
				if outputPath != "" {
					f, err := os.Create(outputPath)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}

				stats := engine.Stats()
				doc := exportDocument{
					Records: stats.Records,
					Pinned:  stats.Pinned,
					Clips:   engine.Snapshot(),
				}
				return format.YAMLFormatter{}.Write(w, doc)
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")

	return cmd
}

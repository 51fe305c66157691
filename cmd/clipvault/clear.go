package main

import (
	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
	"clipvault/internal/config"
	"clipvault/internal/imagecache"
)

func newClearCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every unpinned clip",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cfg, func(engine *catalog.Engine, _ *imagecache.Cache) error {
				before := engine.Stats().Records
				if err := engine.ClearHistory(); err != nil {
					return err
				}
				stats := engine.Stats()
				if *jsonOutput {
					return writeJSON(map[string]int{"removed": before - stats.Records, "kept": stats.Records})
				}
				return writePlain("removed %d clip(s), kept %d pinned\n", before-stats.Records, stats.Records)
			})
		},
	}

	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
	"clipvault/internal/config"
	"clipvault/internal/imagecache"
)

func newDeleteCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id> [<id>...]",
		Short: "Delete clips and their stored payloads",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cfg, func(engine *catalog.Engine, _ *imagecache.Cache) error {
				for _, id := range args {
					if err := engine.Delete(id); err != nil {
						return err
					}
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"deleted": args})
				}
				return writePlain("deleted %d clip(s)\n", len(args))
			})
		},
	}

	return cmd
}

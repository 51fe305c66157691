package main

import (
	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
	"clipvault/internal/config"
	"clipvault/internal/imagecache"
)

func newPinCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin <id> [<id>...]",
		Short: "Toggle the pin flag on clips",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cfg, func(engine *catalog.Engine, _ *imagecache.Cache) error {
				for _, id := range args {
					if err := engine.TogglePin(id); err != nil {
						return err
					}
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"toggled": args})
				}
				return writePlain("toggled %d clip(s)\n", len(args))
			})
		},
	}

	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clipvault/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "clipvault",
		Short: "Clipvault is a bounded clipboard history catalog",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			} else if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSaveCmd(cfg, &jsonOutput),
		newListCmd(cfg, &jsonOutput),
		newShowCmd(cfg),
		newPinCmd(cfg, &jsonOutput),
		newDeleteCmd(cfg, &jsonOutput),
		newClearCmd(cfg, &jsonOutput),
		newExportCmd(cfg, &jsonOutput),
		newGCCmd(cfg),
		newConfigCmd(cfg),
	)

	return cmd
}

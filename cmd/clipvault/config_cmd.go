package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipvault/internal/config"
)

func newConfigCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.Path()
				if err != nil {
					return err
				}
				return writePlain("%s\n", path)
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one config value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := cfg.Get(args[0])
				if err != nil {
					return fmt.Errorf("%w (known keys: %s)", err, strings.Join(config.AllowedKeys(), ", "))
				}
				return writePlain("%s\n", value)
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set one config value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.Path()
				if err != nil {
					return err
				}
				return config.SetKey(path, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print every config value",
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, key := range config.AllowedKeys() {
					value, err := cfg.Get(key)
					if err != nil {
						return err
					}
					if err := writePlain("%s = %s\n", key, value); err != nil {
						return err
					}
				}
				return nil
			},
		},
	)

	return cmd
}

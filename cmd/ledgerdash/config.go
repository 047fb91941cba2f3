// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/ledgerdash/ledgerdash/internal/config"
)

// newConfigCmd creates the config subcommand.
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  `Print the merged configuration (defaults, file, flags) as YAML with secrets redacted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, nil)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			cmd.Print(string(out))
			return nil
		},
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Ledgerdash CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledgerdash",
		Short: "Ledgerdash - invoice dashboard server",
		Long: `Ledgerdash serves a server-rendered invoice dashboard with
credential registration, session login, and invoice and customer management
backed by PostgreSQL.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:         "migrate",
	Short:       "Create any missing tables and indexes",
	Annotations: map[string]string{"store": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		e := envFrom(cmd)
		if err := e.backend.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

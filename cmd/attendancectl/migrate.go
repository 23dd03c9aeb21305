package main

import (
	"go-madrasah/internal/app"
	"go-madrasah/internal/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return app.MigrateDatabase(cmd.Context(), cfg)
		},
	}
}

package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Opening the repository runs the migrations.
		repo, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		logger.Info("migrations applied")
		return repo.Close()
	},
}

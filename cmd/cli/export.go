package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every link, deleted ones included, as JSON to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer repo.Close()

		links, err := repo.Dump(cmd.Context())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(links); err != nil {
			return fmt.Errorf("encode failed: %w", err)
		}

		logger.Info("export finished", "links", len(links))
		return nil
	},
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/tinylink/pkg/core/codegen"
	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Restore links from a JSON export, skipping codes that already exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()

		var links []domain.Link
		if err := json.NewDecoder(file).Decode(&links); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}

		repo, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer repo.Close()

		imported := 0
		for i := range links {
			l := &links[i]
			if !codegen.IsValid(l.Code) || l.TargetURL == "" || l.TotalClicks < 0 {
				logger.Warn("skipping malformed link", "code", l.Code)
				continue
			}

			err := repo.Restore(cmd.Context(), l)
			switch {
			case errors.Is(err, domain.ErrConflict):
				logger.Info("skipping existing code", "code", l.Code)
			case err != nil:
				logger.Error("failed to import link", "code", l.Code, "error", err)
			default:
				imported++
			}
		}

		logger.Info("import finished", "imported", imported, "total", len(links))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "JSON file to import")
	_ = importCmd.MarkFlagRequired("file")
}

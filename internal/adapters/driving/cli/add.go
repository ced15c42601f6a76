package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *cli) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [file...]",
		Short: "Ingest one or more documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.ensureApp()
			if err != nil {
				return err
			}

			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}

				result, err := app.Ingest.Ingest(cmd.Context(), content, filepath.Base(path))
				if err != nil {
					return fmt.Errorf("ingesting %s: %w", path, err)
				}

				cmd.Printf("Added %s: %d chunks (document %s)\n",
					result.Filename, result.ChunksCreated, result.DocumentID)
			}
			return nil
		},
	}
}

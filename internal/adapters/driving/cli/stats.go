package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store and usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.ensureApp()
			if err != nil {
				return err
			}

			stats, err := app.Documents.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading stats: %w", err)
			}

			cmd.Printf("Documents:          %d\n", stats.Documents)
			cmd.Printf("Stored segments:    %d\n", stats.Store.TotalRecords)
			cmd.Printf("Vector dimension:   %d\n", stats.Store.Dimension)
			cmd.Printf("Total size:         %d bytes\n", stats.TotalSizeBytes)
			cmd.Printf("Total pages:        %d\n", stats.TotalPages)
			cmd.Printf("Queries (30 days):  %d\n", stats.QueriesLast30Days)
			cmd.Printf("Avg response time:  %.1f ms\n", stats.AvgResponseTimeMs)
			return nil
		},
	}
}

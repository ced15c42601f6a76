package cli

import (
	"github.com/spf13/cobra"

	"github.com/docqa-labs/docqa-cli/internal/adapters/driving/tui"
)

func (c *cli) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Ask questions interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.ensureApp()
			if err != nil {
				return err
			}
			return tui.Run(app.Query, app.Config.Retrieval.TopK)
		},
	}
}

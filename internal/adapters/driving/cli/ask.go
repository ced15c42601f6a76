package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newAskCmd() *cobra.Command {
	var (
		topK   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question over the stored documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.ensureApp()
			if err != nil {
				return err
			}

			answer, err := app.Query.Ask(cmd.Context(), args[0], topK)
			if err != nil {
				return fmt.Errorf("asking: %w", err)
			}

			if asJSON {
				data, err := json.MarshalIndent(answer, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(data))
				return nil
			}

			cmd.Println(answer.Answer)
			if len(answer.Sources) > 0 {
				cmd.Println()
				cmd.Println("Sources:")
				for _, src := range answer.Sources {
					cmd.Printf("  %s (%.2f)\n", src.Filename, src.Score)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of passages to retrieve (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the answer as JSON")
	return cmd
}

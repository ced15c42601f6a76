package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newDocumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Manage ingested documents",
	}

	cmd.AddCommand(
		c.newDocumentsListCmd(),
		c.newDocumentsSegmentsCmd(),
		c.newDocumentsDeleteCmd(),
	)
	return cmd
}

func (c *cli) newDocumentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ingested documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.ensureApp()
			if err != nil {
				return err
			}

			docs, err := app.Documents.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing documents: %w", err)
			}

			if len(docs) == 0 {
				cmd.Println("No documents ingested yet.")
				return nil
			}

			for _, doc := range docs {
				cmd.Printf("%s  %s  %d chunks  %d bytes  %s\n",
					doc.DocumentID, doc.Filename, doc.Chunks, doc.FileSize,
					doc.UploadedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func (c *cli) newDocumentsSegmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segments [document-id]",
		Short: "Show the stored segments of one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.ensureApp()
			if err != nil {
				return err
			}

			segments, err := app.Documents.Segments(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("reading segments: %w", err)
			}

			for _, seg := range segments {
				cmd.Printf("[%d] %s\n", seg.ChunkIndex, seg.Content)
			}
			return nil
		},
	}
}

func (c *cli) newDocumentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [document-id]",
		Short: "Delete a document and its segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.ensureApp()
			if err != nil {
				return err
			}

			removed, err := app.Documents.Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("deleting document: %w", err)
			}

			cmd.Printf("Deleted %s (%d chunks removed)\n", args[0], removed)
			return nil
		},
	}
}

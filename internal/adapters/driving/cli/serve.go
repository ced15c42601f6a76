package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docqa-labs/docqa-cli/internal/adapters/driving/httpapi"
)

func (c *cli) newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long:  "Serves upload, query, document and stats endpoints over HTTP until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.ensureApp()
			if err != nil {
				return err
			}

			if port == 0 {
				port = app.Config.Server.Port
			}

			handler := httpapi.NewHandler(
				app.Ingest,
				app.Query,
				app.Documents,
				int64(app.Config.Server.MaxFileSizeMB)<<20,
				app.Extensions,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cmd.Printf("Serving on :%d (ctrl-c to stop)\n", port)
			return httpapi.Serve(ctx, handler, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}

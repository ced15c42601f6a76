// Package cli wires the document Q&A services into a cobra command tree.
// Commands construct the application lazily so that flag parsing and
// config loading happen before any store is opened.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/docqa-labs/docqa-cli/internal/adapters/driven/config/file"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driving"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// App bundles everything the commands drive.
type App struct {
	Config file.Config

	Ingest    driving.IngestService
	Query     driving.QueryService
	Documents driving.DocumentService

	// Extensions is the accepted upload whitelist (lowercase, with dot).
	Extensions []string

	// Closers are released in reverse order when the process exits.
	Closers []io.Closer
}

// Close releases the app's resources.
func (a *App) Close() {
	for i := len(a.Closers) - 1; i >= 0; i-- {
		if err := a.Closers[i].Close(); err != nil {
			logger.Warn("Closing resource: %v", err)
		}
	}
}

// Factory builds the App once the configuration is known.
type Factory func(cfg file.Config) (*App, error)

// cli carries flag state and the lazily built app.
type cli struct {
	factory    Factory
	app        *App
	configPath string
	verbose    bool
}

// NewRootCmd builds the command tree. The factory is invoked at most once,
// after flags are parsed.
func NewRootCmd(version string, factory Factory) *cobra.Command {
	c := &cli{factory: factory}

	root := &cobra.Command{
		Use:           "docqa",
		Short:         "Ask questions over your own documents",
		Long:          "docqa ingests text documents, indexes them as embeddings, and answers questions grounded on the most relevant passages.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(c.verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file path (default ~/.docqa/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(
		c.newServeCmd(),
		c.newAddCmd(),
		c.newAskCmd(),
		c.newSearchCmd(),
		c.newDocumentsCmd(),
		c.newStatsCmd(),
		c.newWatchCmd(),
		c.newTUICmd(),
		newVersionCmd(version),
	)

	return root
}

// ensureApp loads configuration and builds the app on first use.
func (c *cli) ensureApp() (*App, error) {
	if c.app != nil {
		return c.app, nil
	}

	cfg, err := file.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	app, err := c.factory(cfg)
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// watchSettle gives the writer time to finish before the file is read.
const watchSettle = 500 * time.Millisecond

func (c *cli) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [directory]",
		Short: "Watch a directory and ingest new documents automatically",
		Long:  "Watches a drop directory; supported files that appear or change are ingested. A failed file is skipped, not fatal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.ensureApp()
			if err != nil {
				return err
			}

			dir := args[0]
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				return fmt.Errorf("not a directory: %s", dir)
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("creating watcher: %w", err)
			}
			defer watcher.Close()

			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cmd.Printf("Watching %s (ctrl-c to stop)\n", dir)

			// A file being written emits several events close together;
			// remember what was just ingested and skip repeats.
			recent := make(map[string]time.Time)

			for {
				select {
				case <-ctx.Done():
					return nil

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Warn("Watcher: %v", err)

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
						continue
					}
					if !supportedFile(event.Name, app.Extensions) {
						continue
					}
					if last, seen := recent[event.Name]; seen && time.Since(last) < 2*time.Second {
						continue
					}

					time.Sleep(watchSettle)

					content, err := os.ReadFile(event.Name)
					if err != nil {
						logger.Warn("Reading %s: %v", event.Name, err)
						continue
					}

					result, err := app.Ingest.Ingest(ctx, content, filepath.Base(event.Name))
					if err != nil {
						logger.Warn("Ingesting %s: %v", event.Name, err)
						continue
					}

					recent[event.Name] = time.Now()
					cmd.Printf("Ingested %s: %d chunks (document %s)\n",
						result.Filename, result.ChunksCreated, result.DocumentID)
				}
			}
		},
	}
}

func supportedFile(path string, extensions []string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

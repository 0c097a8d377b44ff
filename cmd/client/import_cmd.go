package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/client/history"
	"github.com/lorekeep/lorekeep/internal/client/importer"
	"github.com/lorekeep/lorekeep/internal/wikisdk"
)

func init() {
	rootCmd.AddCommand(newImportCmd())
}

func newImportCmd() *cobra.Command {
	var watchDir string

	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Bulk import wiki pages from a CSV file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := currentConfig()
			if err != nil {
				return err
			}

			sdk, err := wikisdk.New(&wikisdk.Config{BaseURL: cfg.ServerURL, Token: cfg.Token})
			if err != nil {
				return err
			}
			defer sdk.Close()

			recorder := openRecorder(cfg.HistoryDb)

			if watchDir != "" {
				return runWatchMode(cmd.Context(), sdk, recorder, watchDir)
			}

			if len(args) != 1 {
				return fmt.Errorf("pass a CSV file or use --watch")
			}
			return runImportTUI(cmd.Context(), sdk, recorder, args[0])
		},
	}

	cmd.Flags().StringVarP(&watchDir, "watch", "w", "", "Watch a directory and import dropped CSV files")
	return cmd
}

// openRecorder wires the local history store. History is best effort; a
// broken db never blocks an import.
func openRecorder(dbPath string) importer.Recorder {
	store, err := history.Open(dbPath)
	if err != nil {
		slog.Warn("history store unavailable", "path", dbPath, "error", err)
		return nil
	}
	return importer.RecorderFunc(func(ctx context.Context, entry importer.ReportEntry) error {
		return store.Insert(ctx, history.Report{
			ReportID:  entry.ReportID,
			ReportURL: entry.ReportURL,
			FileName:  entry.FileName,
			Total:     entry.Stats.Total,
			Errors:    entry.Stats.Errors,
			Creates:   entry.Stats.Creates,
			Updates:   entry.Stats.Updates,
			Imported:  entry.Imported,
		})
	})
}

func runWatchMode(ctx context.Context, sdk *wikisdk.WikiSDK, recorder importer.Recorder, dir string) error {
	watcher := importer.NewDropWatcher(dir)
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Printf("watching %s for CSV files, ctrl+c to stop\n", cyan.Render(dir))
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-watcher.Files():
			if !ok {
				return nil
			}
			fmt.Printf("picked up %s\n", cyan.Render(path))
			if err := runImportTUI(ctx, sdk, recorder, path); err != nil {
				fmt.Fprintf(os.Stderr, "%s %s\n", errorHeaderStyle.Render("ERROR:"), err)
			}
		}
	}
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ppiankov/playlens/internal/cache"
	"github.com/ppiankov/playlens/internal/model"
	"github.com/ppiankov/playlens/internal/pipeline"
	"github.com/ppiankov/playlens/internal/watch"
	"github.com/ppiankov/playlens/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var noCache bool

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-analyze a playlist every time it changes",
	Long: `Watch analyzes a playlist, prints the report, and prints a fresh report
each time the file is rewritten. Runs until interrupted.

Events that leave the file's size and modification time unchanged (a
chmod, or a copy that preserves timestamps) are answered from the report
cache and print nothing. Use --no-cache to print on every event.

A failed analysis (for example while the file is being replaced) is
reported on stderr and watching continues.

Example:
  playlens watch channels.m3u
  playlens watch channels.m3u --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addAnalysisFlags(watchCmd)
	watchCmd.Flags().BoolVar(&noCache, "no-cache", false, "print a report on every change event, even for an unchanged file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}

	w, err := watch.New(args[0], logger)
	if err != nil {
		return err
	}

	analyze := newWatchHandler(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	analyze(w.Path())

	if err := w.Run(cmd.Context(), analyze); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

// newWatchHandler returns the callback run for each settled change. A
// report served from the cache means the file is unchanged and is not
// printed again.
func newWatchHandler(cfg *model.Config, out, stderr io.Writer) func(path string) {
	processor := worker.NewBatchProcessor(pipeline.NewAnalyzer(cfg, logger), 1, 0, 0).WithLogger(logger)
	if cfg.Cache.Enabled {
		store := cache.NewMemoryCache(cfg.Cache.TTL, 0)
		processor = processor.WithCache(cache.NewReportCache(store, cfg.Cache.TTL))
	}

	return func(path string) {
		// A single file pass is not interrupted; Run stops between events
		res := processor.ProcessPaths(context.Background(), []string{path})[0]
		if res.Error != nil {
			fmt.Fprintf(stderr, "✗ %v\n", res.Error)
			return
		}
		if res.Cached {
			logger.Debug("Playlist unchanged, report not reprinted", zap.String("path", path))
			return
		}
		if err := writeReport(out, cfg, res.Report); err != nil {
			logger.Warn("Failed to print report", zap.Error(err))
		}
	}
}

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/playlens/internal/aggregate"
	"github.com/ppiankov/playlens/internal/model"
	"github.com/ppiankov/playlens/internal/pipeline"
	"github.com/ppiankov/playlens/internal/worker"
	"github.com/spf13/cobra"
)

var (
	listFile     string
	concurrency  int
	filesPerSec  float64
	burst        int
	merge        bool
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Analyze many playlists in parallel",
	Long: `Batch analyzes several playlists concurrently. Each playlist is still
read by a single sequential pass; only whole files run in parallel.

Paths come from the arguments and, with --list, from a file holding one
path per line ('#' starts a comment). Reports are printed in path order,
or as one merged report with --merge. Failed files are listed on stderr
and make the command exit non-zero.

Example:
  playlens batch a.m3u b.m3u
  playlens batch --list playlists.txt --concurrency 8 --merge
  playlens batch /mnt/nas/*.m3u --rate 2 --burst 1`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addAnalysisFlags(batchCmd)
	batchCmd.Flags().StringVar(&listFile, "list", "", "file with playlist paths (one per line)")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", model.DefaultConfig().Concurrency.Workers, "number of concurrent workers")
	batchCmd.Flags().Float64Var(&filesPerSec, "rate", 0, "max files opened per second per directory (0 = unlimited)")
	batchCmd.Flags().IntVar(&burst, "burst", 5, "rate limiter burst size")
	batchCmd.Flags().BoolVar(&merge, "merge", false, "print one report with the union of all matched groups")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyBatchFlags(cmd, cfg)

	paths := append([]string{}, args...)
	if listFile != "" {
		listed, err := worker.ReadPathsFromFile(listFile)
		if err != nil {
			return fmt.Errorf("read list: %w", err)
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no playlists given (pass paths or --list)")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	processor := newBatchProcessor(cfg)
	results := processor.ProcessPaths(ctx, paths)

	stderr := cmd.ErrOrStderr()
	var reports []*model.Report
	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
			fmt.Fprintf(stderr, "✗ %s: %v\n", res.Path, res.Error)
			continue
		}
		reports = append(reports, res.Report)
	}

	if err := printBatch(cmd.OutOrStdout(), cfg, reports); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(stderr, "Analyzed %d playlists (%d failed) with %d workers\n",
			len(results), failed, cfg.Concurrency.Workers)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d playlists failed", failed, len(results))
	}
	return nil
}

func applyBatchFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if flags.Changed("rate") {
		cfg.RateLimiting.FilesPerSecond = filesPerSec
	}
	if flags.Changed("burst") {
		cfg.RateLimiting.BurstSize = burst
	}
}

func newBatchProcessor(cfg *model.Config) *worker.BatchProcessor {
	analyzer := pipeline.NewAnalyzer(cfg, logger)
	return worker.NewBatchProcessor(analyzer, cfg.Concurrency.Workers,
		cfg.RateLimiting.FilesPerSecond, cfg.RateLimiting.BurstSize).WithLogger(logger)
}

// printBatch writes the merged report, or each report in order. Text
// reports get a "==> path <==" banner; yaml documents are separated by
// "---".
func printBatch(w io.Writer, cfg *model.Config, reports []*model.Report) error {
	if merge {
		if len(reports) == 0 {
			return nil
		}
		return writeReport(w, cfg, aggregate.Merge(reports...))
	}

	for i, report := range reports {
		switch cfg.Output.Format {
		case pipeline.FormatText:
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "==> %s <==\n", report.Source)
		case pipeline.FormatYAML:
			if i > 0 {
				fmt.Fprintln(w, "---")
			}
		case pipeline.FormatMarkdown:
			if i > 0 {
				fmt.Fprintln(w)
			}
		}
		if err := writeReport(w, cfg, report); err != nil {
			return err
		}
	}
	return nil
}

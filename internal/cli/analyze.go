package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ppiankov/playlens/internal/model"
	"github.com/ppiankov/playlens/internal/pipeline"
	"github.com/spf13/cobra"
)

var outPath string

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Report the matching group labels of one playlist",
	Long: `Analyze streams a single M3U playlist and prints a header line followed
by the distinct group labels that contain one of the keywords, sorted.

Exits 0 when the file was read, even if nothing matched. Exits non-zero
and prints nothing to stdout when the file cannot be opened or read.

Example:
  playlens analyze channels.m3u
  playlens analyze channels.m3u --keywords DE,DEUTSCH --format json
  playlens analyze legacy.m3u --encoding windows-1254 --stats`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	addAnalysisFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&outPath, "out", "", "write the report to this file instead of stdout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	analyzer := pipeline.NewAnalyzer(cfg, logger)
	report, err := analyzer.AnalyzeFile(path)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if outPath != "" {
		if err := pipeline.NewRenderer(cfg.Output).RenderToFile(outPath, report, cfg.Output.Format); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Report written to %s\n", outPath)
		}
		return nil
	}

	return writeReport(cmd.OutOrStdout(), cfg, report)
}

// writeReport renders into memory first so a render failure leaves w
// untouched
func writeReport(w io.Writer, cfg *model.Config, report *model.Report) error {
	var buf bytes.Buffer
	if err := pipeline.NewRenderer(cfg.Output).Render(&buf, report, cfg.Output.Format); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

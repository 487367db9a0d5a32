package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/playlens/internal/cache"
	"github.com/ppiankov/playlens/internal/model"
	"go.uber.org/zap"
)

// Analyzer analyzes one playlist file
type Analyzer interface {
	AnalyzeFile(path string) (*model.Report, error)
	Fingerprint() string
}

// AnalyzeJob analyzes a single playlist file
type AnalyzeJob struct {
	Path     string
	Analyzer Analyzer
	Limiter  *Limiter
	Reports  *cache.ReportCache
	Logger   *zap.Logger
}

// Execute executes the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	res := &AnalyzeResult{Path: j.Path}
	if err := ctx.Err(); err != nil {
		res.Error = err
		return res
	}

	var key string
	if j.Reports != nil {
		if info, err := os.Stat(j.Path); err == nil {
			key = cache.FileKey(j.Path, info, j.Analyzer.Fingerprint())
			if report, ok := j.Reports.Get(key); ok {
				report.Source = j.Path
				res.Report = report
				res.Cached = true
				j.logger().Debug("Report served from cache", zap.String("path", j.Path))
				return res
			}
		}
	}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Path); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			return res
		}
	}

	report, err := j.Analyzer.AnalyzeFile(j.Path)
	if err != nil {
		res.Error = err
		return res
	}
	res.Report = report

	if key != "" {
		if err := j.Reports.Put(key, report); err != nil {
			j.logger().Warn("Failed to cache report", zap.String("path", j.Path), zap.Error(err))
		}
	}

	return res
}

func (j *AnalyzeJob) logger() *zap.Logger {
	if j.Logger == nil {
		return zap.NewNop()
	}
	return j.Logger
}

// AnalyzeResult represents the result of an analysis job
type AnalyzeResult struct {
	Path   string
	Report *model.Report
	Cached bool
	Error  error
}

// GetError returns the error from the analysis result
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many playlist files concurrently. Each file is
// analyzed by its own single-threaded pass.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
	reports     *cache.ReportCache
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int, filesPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     NewLimiter(filesPerSecond, burst),
		logger:      zap.NewNop(),
	}
}

// WithCache enables report reuse for unchanged files
func (b *BatchProcessor) WithCache(reports *cache.ReportCache) *BatchProcessor {
	b.reports = reports
	return b
}

// WithLogger sets the logger used for job diagnostics
func (b *BatchProcessor) WithLogger(logger *zap.Logger) *BatchProcessor {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// ProcessPaths analyzes every path and returns one result per distinct
// file, sorted by path. Spellings of the same file (a.m3u, ./a.m3u, its
// absolute path) count once, under the first spelling given. Paths never reached because ctx ended carry the
// context error.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnalyzeResult {
	paths = dedupe(paths)
	if len(paths) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	byPath := make(map[string]*AnalyzeResult, len(paths))
	for _, path := range paths {
		job := &AnalyzeJob{
			Path:     path,
			Analyzer: b.analyzer,
			Limiter:  b.limiter,
			Reports:  b.reports,
			Logger:   b.logger,
		}
		if err := pool.Submit(job); err != nil {
			byPath[path] = &AnalyzeResult{Path: path, Error: err}
		}
	}

	for _, r := range pool.Wait() {
		res := r.(*AnalyzeResult)
		byPath[res.Path] = res
	}

	results := make([]*AnalyzeResult, 0, len(paths))
	for _, path := range paths {
		res, ok := byPath[path]
		if !ok {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			res = &AnalyzeResult{Path: path, Error: err}
		}
		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results
}

// ProcessFile reads playlist paths from a list file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*AnalyzeResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads playlist paths from a file (one per line).
// Blank lines and '#' comments are skipped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return dedupe(paths), nil
}

// dedupe drops empty paths and every later spelling of a file already
// seen. Symlinks are not resolved.
func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		key := canonicalPath(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// canonicalPath returns the cleaned absolute form of p
func canonicalPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

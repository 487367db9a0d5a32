package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/playlens/internal/aggregate"
	"github.com/ppiankov/playlens/internal/classify"
	"github.com/ppiankov/playlens/internal/extract"
	"github.com/ppiankov/playlens/internal/model"
	"github.com/ppiankov/playlens/internal/playlist"
	"go.uber.org/zap"
)

// Analyzer runs the read -> parse -> classify -> aggregate pass over one
// playlist. An Analyzer holds no per-run state and may be shared by
// concurrent runs.
type Analyzer struct {
	config *model.Config
	logger *zap.Logger
}

// NewAnalyzer creates a new analyzer with the given configuration
func NewAnalyzer(cfg *model.Config, logger *zap.Logger) *Analyzer {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		config: cfg,
		logger: logger,
	}
}

// AnalyzeFile opens path and analyzes it
func (a *Analyzer) AnalyzeFile(path string) (*model.Report, error) {
	f, err := playlist.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return a.Analyze(f, path)
}

// Analyze streams r line by line and returns the sorted, deduplicated
// labels of matching groups. A read failure aborts the run and no report
// is returned.
func (a *Analyzer) Analyze(r io.Reader, source string) (*model.Report, error) {
	started := time.Now()

	lines, err := playlist.NewLineReader(r, playlist.ReaderOptions{
		Name:         source,
		Encoding:     a.config.Input.Encoding,
		MaxLineBytes: a.config.Input.MaxLineBytes,
	})
	if err != nil {
		return nil, err
	}

	parser := extract.NewParser()
	classifier := classify.New(a.config.Classification)
	agg := aggregate.NewAggregator()

	a.logger.Debug("Analysis started",
		zap.String("source", source),
		zap.Strings("keywords", classifier.Keywords()),
		zap.String("attribute", classifier.Attribute()))

	for {
		line, ok := lines.Next()
		if !ok {
			break
		}
		agg.Line()

		res := parser.Parse(line)
		switch res.Kind {
		case extract.KindDirective:
			agg.Directive()
			label, matched := classifier.Classify(res.Directive.Attributes)
			if matched {
				agg.Record(label)
				continue
			}
			if _, has := res.Directive.Attributes[classifier.Attribute()]; !has {
				agg.Unlabeled()
				a.logger.Debug("Directive without group attribute",
					zap.String("source", source),
					zap.Int("line", res.Directive.Line))
			}
		case extract.KindURI:
			if res.Entry != nil {
				agg.Entry()
			} else {
				agg.OrphanURI()
			}
		}
	}

	if err := lines.Err(); err != nil {
		return nil, err
	}

	report := &model.Report{
		RunID:      uuid.NewString(),
		Source:     source,
		AnalyzedAt: time.Now().UTC(),
		Keywords:   classifier.Keywords(),
		Attribute:  classifier.Attribute(),
		Groups:     agg.Labels(),
		Counts:     agg.Counts(),
		Stats:      agg.Stats(),
	}

	a.logger.Debug("Analysis complete",
		zap.String("source", source),
		zap.Int("lines", report.Stats.Lines),
		zap.Int("directives", report.Stats.Directives),
		zap.Int("matched", report.Stats.Matched),
		zap.Int("groups", len(report.Groups)),
		zap.Duration("elapsed", time.Since(started)))

	return report, nil
}

// Fingerprint identifies everything that affects an analysis result apart
// from the input bytes
func (a *Analyzer) Fingerprint() string {
	c := classify.New(a.config.Classification)
	return fmt.Sprintf("attr=%s|kw=%s|enc=%s|max=%d",
		c.Attribute(),
		strings.Join(c.Keywords(), "\x1f"),
		strings.ToLower(strings.TrimSpace(a.config.Input.Encoding)),
		a.config.Input.MaxLineBytes)
}

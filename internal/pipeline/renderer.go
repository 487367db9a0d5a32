package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/playlens/internal/model"
	"gopkg.in/yaml.v3"
)

// Supported report formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// ValidateFormat checks that format is one the renderer understands
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML, FormatMarkdown:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json, yaml or markdown)", format)
	}
}

// Renderer writes reports in the configured shape
type Renderer struct {
	header string
	stats  bool
}

// NewRenderer creates a renderer from the output configuration
func NewRenderer(out model.OutputConfig) *Renderer {
	return &Renderer{
		header: out.Header,
		stats:  out.Stats,
	}
}

// Render writes report to w in the given format
func (r *Renderer) Render(w io.Writer, report *model.Report, format string) error {
	switch format {
	case FormatText, "":
		return r.RenderText(w, report)
	case FormatJSON:
		return r.RenderJSON(w, report)
	case FormatYAML:
		return r.RenderYAML(w, report)
	case FormatMarkdown:
		return r.RenderMarkdown(w, report)
	default:
		return ValidateFormat(format)
	}
}

// RenderToFile renders report into path, replacing any existing file
func (r *Renderer) RenderToFile(path string, report *model.Report, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
	}()

	return r.Render(f, report, format)
}

// RenderText writes the header line followed by one label per line
func (r *Renderer) RenderText(w io.Writer, report *model.Report) error {
	var err error
	printf := func(format string, a ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, a...)
	}

	printf("%s\n", r.header)
	for _, g := range report.Groups {
		printf("%s\n", g)
	}

	if r.stats {
		s := report.Stats
		printf("\n")
		printf("lines=%d directives=%d entries=%d orphan_uris=%d unlabeled=%d matched=%d groups=%d\n",
			s.Lines, s.Directives, s.Entries, s.OrphanURIs, s.Unlabeled, s.Matched, len(report.Groups))
	}

	return err
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// RenderYAML writes the full report as YAML
func (r *Renderer) RenderYAML(w io.Writer, report *model.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable summary with a label table
func (r *Renderer) RenderMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.header)
	fmt.Fprintf(&b, "- **Source:** `%s`\n", report.Source)
	fmt.Fprintf(&b, "- **Attribute:** `%s`\n", report.Attribute)
	fmt.Fprintf(&b, "- **Keywords:** %s\n", strings.Join(report.Keywords, ", "))
	fmt.Fprintf(&b, "- **Analyzed:** %s\n\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))

	if len(report.Groups) == 0 {
		b.WriteString("_No matching groups._\n\n")
	} else {
		b.WriteString("| Group | Entries |\n")
		b.WriteString("|-------|---------|\n")
		for _, g := range report.Groups {
			fmt.Fprintf(&b, "| %s | %d |\n", escapeMarkdownCell(g), report.Counts[g])
		}
		b.WriteString("\n")
	}

	s := report.Stats
	b.WriteString("## Stats\n\n")
	fmt.Fprintf(&b, "- Lines: %d\n", s.Lines)
	fmt.Fprintf(&b, "- Directives: %d\n", s.Directives)
	fmt.Fprintf(&b, "- Entries: %d\n", s.Entries)
	fmt.Fprintf(&b, "- Orphan URIs: %d\n", s.OrphanURIs)
	fmt.Fprintf(&b, "- Unlabeled directives: %d\n", s.Unlabeled)
	fmt.Fprintf(&b, "- Matched directives: %d\n", s.Matched)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

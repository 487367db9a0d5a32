package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/playlens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testReport() *model.Report {
	return &model.Report{
		RunID:      "run-1",
		Source:     "list.m3u",
		AnalyzedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Keywords:   []string{"TR", "ULUSAL"},
		Attribute:  "group-title",
		Groups:     []string{"TR: Ulusal", "Yerel | Ulusal"},
		Counts:     map[string]int{"TR: Ulusal": 2, "Yerel | Ulusal": 1},
		Stats:      model.Stats{Lines: 9, Directives: 4, Entries: 4, Matched: 3},
	}
}

func TestRenderText(t *testing.T) {
	r := NewRenderer(model.OutputConfig{Header: "Matched groups:"})

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testReport(), FormatText))

	assert.Equal(t, "Matched groups:\nTR: Ulusal\nYerel | Ulusal\n", buf.String())
}

func TestRenderText_Empty(t *testing.T) {
	r := NewRenderer(model.OutputConfig{Header: "Matched groups:"})

	var buf bytes.Buffer
	require.NoError(t, r.RenderText(&buf, &model.Report{Groups: []string{}}))

	assert.Equal(t, "Matched groups:\n", buf.String())
}

func TestRenderText_Stats(t *testing.T) {
	r := NewRenderer(model.OutputConfig{Header: "H", Stats: true})

	var buf bytes.Buffer
	require.NoError(t, r.RenderText(&buf, testReport()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "H", lines[0])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "lines=9 directives=4 entries=4 orphan_uris=0 unlabeled=0 matched=3 groups=2", lines[4])
}

func TestRenderJSON(t *testing.T) {
	r := NewRenderer(model.OutputConfig{})

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testReport(), FormatJSON))

	var decoded model.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, testReport().Groups, decoded.Groups)
	assert.Equal(t, 3, decoded.Stats.Matched)
	assert.Contains(t, buf.String(), `"run_id": "run-1"`)
}

func TestRenderYAML(t *testing.T) {
	r := NewRenderer(model.OutputConfig{})

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testReport(), FormatYAML))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "list.m3u", decoded["source"])
	assert.Len(t, decoded["groups"], 2)
}

func TestRenderMarkdown(t *testing.T) {
	r := NewRenderer(model.OutputConfig{Header: "Matched groups"})

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testReport(), FormatMarkdown))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Matched groups\n"))
	assert.Contains(t, out, "| TR: Ulusal | 2 |")
	assert.Contains(t, out, `| Yerel \| Ulusal | 1 |`)
	assert.Contains(t, out, "- Matched directives: 3")
}

func TestRenderMarkdown_NoGroups(t *testing.T) {
	r := NewRenderer(model.OutputConfig{Header: "Matched groups"})

	var buf bytes.Buffer
	require.NoError(t, r.RenderMarkdown(&buf, &model.Report{}))
	assert.Contains(t, buf.String(), "_No matching groups._")
}

func TestRender_UnknownFormat(t *testing.T) {
	r := NewRenderer(model.OutputConfig{})

	var buf bytes.Buffer
	err := r.Render(&buf, testReport(), "html")
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatText, FormatJSON, FormatYAML, FormatMarkdown} {
		assert.NoError(t, ValidateFormat(f))
	}
	assert.Error(t, ValidateFormat("csv"))
}

func TestRenderToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	r := NewRenderer(model.OutputConfig{Header: "Groups"})

	require.NoError(t, r.RenderToFile(path, testReport(), FormatText))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Groups\nTR: Ulusal\nYerel | Ulusal\n", string(data))
}

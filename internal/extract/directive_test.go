package extract

import (
	"testing"

	"github.com/ppiankov/playlens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		duration string
		attrs    model.Attributes
		title    string
	}{
		{
			name:     "full entry",
			line:     `#EXTINF:-1 tvg-id="trt1.tr" tvg-name="TRT 1" group-title="TR: Ulusal",TRT 1 HD`,
			duration: "-1",
			attrs: model.Attributes{
				"tvg-id":      "trt1.tr",
				"tvg-name":    "TRT 1",
				"group-title": "TR: Ulusal",
			},
			title: "TRT 1 HD",
		},
		{
			name:     "no attributes",
			line:     `#EXTINF:-1,Plain Channel`,
			duration: "-1",
			attrs:    model.Attributes{},
			title:    "Plain Channel",
		},
		{
			name:     "unterminated quote",
			line:     `#EXTINF:-1 group-title="Türkçe,Kanal 2`,
			duration: "-1",
			attrs:    model.Attributes{},
			title:    "",
		},
		{
			name:     "stray equals is skipped",
			line:     `#EXTINF:-1 junk=value = group-title="News",Haber`,
			duration: "-1",
			attrs:    model.Attributes{"group-title": "News"},
			title:    "Haber",
		},
		{
			name:     "comma inside quoted value",
			line:     `#EXTINF:0 group-title="Movies, Series",Film 1, Director's Cut`,
			duration: "0",
			attrs:    model.Attributes{"group-title": "Movies, Series"},
			title:    "Film 1, Director's Cut",
		},
		{
			name:     "escaped quote",
			line:     `#EXTINF:-1 group-title="Say \"Hi\"",X`,
			duration: "-1",
			attrs:    model.Attributes{"group-title": `Say "Hi"`},
			title:    "X",
		},
		{
			name:     "repeated key keeps last",
			line:     `#EXTINF:-1 group-title="A" group-title="B",X`,
			duration: "-1",
			attrs:    model.Attributes{"group-title": "B"},
			title:    "X",
		},
		{
			name:     "empty value",
			line:     `#EXTINF:-1 tvg-logo="" group-title="TR",X`,
			duration: "-1",
			attrs:    model.Attributes{"tvg-logo": "", "group-title": "TR"},
			title:    "X",
		},
		{
			name:     "bare prefix",
			line:     `#EXTINF:`,
			duration: "",
			attrs:    model.Attributes{},
			title:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ParseDirective(tt.line)
			require.True(t, ok)
			require.NotNil(t, d.Attributes)
			assert.Equal(t, tt.duration, d.Duration)
			assert.Equal(t, tt.attrs, d.Attributes)
			assert.Equal(t, tt.title, d.Title)
		})
	}
}

func TestParseDirective_NotDirective(t *testing.T) {
	for _, line := range []string{
		"",
		"#EXTM3U",
		"#EXTGRP:TR",
		"# just a comment",
		"http://example.com/stream.m3u8",
		`#extinf:-1 group-title="TR",lowercase prefix`,
		`x #EXTINF:-1 group-title="TR",not at start`,
	} {
		d, ok := ParseDirective(line)
		assert.False(t, ok, "line %q", line)
		assert.Nil(t, d)
	}
}

func TestParser_Sequence(t *testing.T) {
	p := NewParser()

	lines := []string{
		"#EXTM3U",
		`#EXTINF:-1 group-title="TR: Ulusal",Kanal 1`,
		"http://a/1",
		"",
		"http://orphan",
		`#EXTINF:-1 group-title="Sports",Dropped`,
		`#EXTINF:-1 group-title="Music",Kept`,
		"http://a/2",
	}

	var results []Result
	for _, l := range lines {
		results = append(results, p.Parse(l))
	}

	kinds := make([]LineKind, len(results))
	for i, r := range results {
		kinds[i] = r.Kind
	}
	assert.Equal(t, []LineKind{
		KindComment, KindDirective, KindURI, KindBlank,
		KindURI, KindDirective, KindDirective, KindURI,
	}, kinds)

	require.NotNil(t, results[1].Directive)
	assert.Equal(t, 2, results[1].Directive.Line)

	require.NotNil(t, results[2].Entry)
	assert.Equal(t, "http://a/1", results[2].Entry.URI)
	assert.Equal(t, "TR: Ulusal", results[2].Entry.Directive.Attributes["group-title"])

	assert.Nil(t, results[4].Entry, "URI without directive is an orphan")

	require.NotNil(t, results[7].Entry)
	assert.Equal(t, "Kept", results[7].Entry.Directive.Title)
	assert.Equal(t, 7, results[7].Entry.Directive.Line)
}

func TestLineKind_String(t *testing.T) {
	assert.Equal(t, "blank", KindBlank.String())
	assert.Equal(t, "directive", KindDirective.String())
	assert.Equal(t, "comment", KindComment.String())
	assert.Equal(t, "uri", KindURI.String())
	assert.Equal(t, "unknown", LineKind(42).String())
}

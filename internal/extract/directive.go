package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/playlens/internal/model"
)

// DirectivePrefix marks an entry metadata line
const DirectivePrefix = "#EXTINF:"

// attributePattern matches key="value" pairs. Keys are bare identifiers
// (hyphens allowed, as in group-title); values may hold anything except an
// unescaped double quote.
var attributePattern = regexp.MustCompile(`([A-Za-z0-9_-]+)="((?:[^"\\]|\\.)*)"`)

// ParseDirective parses a trimmed #EXTINF line. It returns false for any
// other line. Fragments that do not match the attribute pattern (an
// unterminated quote, a stray '=') are skipped; they never fail the line.
// When a key repeats, the last value wins.
func ParseDirective(line string) (*model.Directive, bool) {
	if !strings.HasPrefix(line, DirectivePrefix) {
		return nil, false
	}
	rest := line[len(DirectivePrefix):]

	d := &model.Directive{
		Duration:   leadingToken(rest),
		Attributes: model.Attributes{},
		Title:      titleOf(rest),
	}

	for _, m := range attributePattern.FindAllStringSubmatch(rest, -1) {
		d.Attributes[m[1]] = unescapeValue(m[2])
	}

	return d, true
}

// leadingToken returns the duration field that precedes attributes and title
func leadingToken(rest string) string {
	rest = strings.TrimLeft(rest, " \t")
	if i := strings.IndexAny(rest, " \t,"); i >= 0 {
		return rest[:i]
	}
	return rest
}

// titleOf returns the text after the first comma that is not inside a
// quoted value
func titleOf(rest string) string {
	inQuote := false
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				return strings.TrimSpace(rest[i+1:])
			}
		}
	}
	return ""
}

func unescapeValue(v string) string {
	if !strings.Contains(v, `\`) {
		return v
	}
	return strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(v)
}

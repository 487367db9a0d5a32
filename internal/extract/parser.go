package extract

import (
	"strings"

	"github.com/ppiankov/playlens/internal/model"
)

// LineKind classifies a playlist line
type LineKind int

const (
	KindBlank     LineKind = iota // Empty after trimming
	KindDirective                 // #EXTINF line
	KindComment                   // Any other '#' line (#EXTM3U, #EXTGRP, comments)
	KindURI                       // Everything else
)

func (k LineKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindDirective:
		return "directive"
	case KindComment:
		return "comment"
	case KindURI:
		return "uri"
	default:
		return "unknown"
	}
}

// Result is what the parser learned from one line
type Result struct {
	Kind      LineKind
	Directive *model.Directive // Set for KindDirective
	Entry     *model.Entry     // Set for a KindURI line that follows a directive
}

// Parser interprets lines in order. The only state it keeps is the last
// directive not yet paired with a URI.
type Parser struct {
	pending *model.Directive
	line    int
}

// NewParser creates a new parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse interprets one trimmed line
func (p *Parser) Parse(line string) Result {
	p.line++

	switch {
	case line == "":
		return Result{Kind: KindBlank}

	case strings.HasPrefix(line, DirectivePrefix):
		d, _ := ParseDirective(line)
		d.Line = p.line
		// A directive with no URI after it is superseded by the next one
		p.pending = d
		return Result{Kind: KindDirective, Directive: d}

	case strings.HasPrefix(line, "#"):
		return Result{Kind: KindComment}

	default:
		res := Result{Kind: KindURI}
		if p.pending != nil {
			res.Entry = &model.Entry{Directive: p.pending, URI: line}
			p.pending = nil
		}
		return res
	}
}

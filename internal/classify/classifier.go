package classify

import (
	"strings"

	"github.com/ppiankov/playlens/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Classifier decides whether a directive's group label names a tracked
// region. It is not safe for concurrent use; build one per analysis run.
type Classifier struct {
	attribute string
	keywords  []string
	caser     cases.Caser
}

// New creates a classifier for the given rule. Keywords are uppercased with
// the same locale-invariant mapping as labels; blank keywords are dropped.
func New(rule model.ClassificationConfig) *Classifier {
	caser := cases.Upper(language.Und)

	attribute := rule.Attribute
	if attribute == "" {
		attribute = model.DefaultAttribute
	}

	keywords := make([]string, 0, len(rule.Keywords))
	seen := make(map[string]bool)
	for _, kw := range rule.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		norm := caser.String(kw)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		keywords = append(keywords, norm)
	}

	return &Classifier{
		attribute: attribute,
		keywords:  keywords,
		caser:     caser,
	}
}

// Classify returns the original group label when it contains any keyword.
// A missing attribute or no keyword hit is an ordinary miss.
func (c *Classifier) Classify(attrs model.Attributes) (string, bool) {
	label, ok := attrs[c.attribute]
	if !ok {
		return "", false
	}

	normalized := c.caser.String(label)
	for _, kw := range c.keywords {
		if strings.Contains(normalized, kw) {
			return label, true
		}
	}

	return "", false
}

// Attribute returns the attribute name labels are read from
func (c *Classifier) Attribute() string {
	return c.attribute
}

// Keywords returns the normalized keywords in rule order
func (c *Classifier) Keywords() []string {
	out := make([]string, len(c.keywords))
	copy(out, c.keywords)
	return out
}

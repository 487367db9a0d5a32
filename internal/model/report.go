package model

import "time"

// Report is the result of analyzing one playlist (or several, when merged)
type Report struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Source     string    `json:"source" yaml:"source"`           // File path or stream name
	AnalyzedAt time.Time `json:"analyzed_at" yaml:"analyzed_at"` // When the analysis finished

	Keywords  []string `json:"keywords" yaml:"keywords"`   // Normalized keywords that were applied
	Attribute string   `json:"attribute" yaml:"attribute"` // Attribute the keywords were matched against

	Groups []string       `json:"groups" yaml:"groups"`                     // Matched labels, sorted, no duplicates
	Counts map[string]int `json:"counts,omitempty" yaml:"counts,omitempty"` // Matching entries per label

	Stats Stats `json:"stats" yaml:"stats"`
}

// Stats are informational counters collected during a run.
// They never decide whether a run succeeded.
type Stats struct {
	Lines      int `json:"lines" yaml:"lines"`             // Lines read
	Directives int `json:"directives" yaml:"directives"`   // #EXTINF lines seen
	Entries    int `json:"entries" yaml:"entries"`         // Directives followed by a URI
	OrphanURIs int `json:"orphan_uris" yaml:"orphan_uris"` // URIs with no preceding directive
	Unlabeled  int `json:"unlabeled" yaml:"unlabeled"`     // Directives lacking the group attribute
	Matched    int `json:"matched" yaml:"matched"`         // Matching directives, duplicates included
}

// Add returns the element-wise sum of two Stats
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Lines:      s.Lines + o.Lines,
		Directives: s.Directives + o.Directives,
		Entries:    s.Entries + o.Entries,
		OrphanURIs: s.OrphanURIs + o.OrphanURIs,
		Unlabeled:  s.Unlabeled + o.Unlabeled,
		Matched:    s.Matched + o.Matched,
	}
}

package model

// Attributes maps directive attribute names, as written, to their unquoted values
type Attributes map[string]string

// Directive is one parsed #EXTINF line
type Directive struct {
	Line       int        `json:"line"`            // 1-based line number in the source
	Duration   string     `json:"duration"`        // Raw leading token, usually -1 for live channels
	Attributes Attributes `json:"attributes"`      // Never nil for a recognized directive
	Title      string     `json:"title,omitempty"` // Display name after the first unquoted comma
}

// Entry pairs a directive with the URI line that follows it
type Entry struct {
	Directive *Directive `json:"directive"`
	URI       string     `json:"uri"`
}

package aggregate

import (
	"maps"
	"slices"

	"github.com/ppiankov/playlens/internal/model"
)

// Aggregator collects matched group labels for one run. Labels are unique
// by exact string equality; two labels that differ only in casing or
// punctuation are kept apart.
type Aggregator struct {
	groups map[string]int
	stats  model.Stats
}

// NewAggregator creates an empty aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		groups: make(map[string]int),
	}
}

// Record adds a matched label. It reports whether the label was new;
// recording a known label leaves the set unchanged.
func (a *Aggregator) Record(label string) bool {
	a.stats.Matched++
	n := a.groups[label]
	a.groups[label] = n + 1
	return n == 0
}

// Len returns the number of distinct labels
func (a *Aggregator) Len() int {
	return len(a.groups)
}

// Labels returns the distinct labels in ascending byte order
func (a *Aggregator) Labels() []string {
	labels := slices.AppendSeq(make([]string, 0, len(a.groups)), maps.Keys(a.groups))
	slices.Sort(labels)
	return labels
}

// Counts returns how many matching entries carried each label
func (a *Aggregator) Counts() map[string]int {
	return maps.Clone(a.groups)
}

// Line counts one input line
func (a *Aggregator) Line() { a.stats.Lines++ }

// Directive counts one directive line
func (a *Aggregator) Directive() { a.stats.Directives++ }

// Entry counts a directive that was followed by its URI
func (a *Aggregator) Entry() { a.stats.Entries++ }

// OrphanURI counts a URI with no directive before it
func (a *Aggregator) OrphanURI() { a.stats.OrphanURIs++ }

// Unlabeled counts a directive without the group attribute
func (a *Aggregator) Unlabeled() { a.stats.Unlabeled++ }

// Stats returns the counters collected so far
func (a *Aggregator) Stats() model.Stats {
	return a.stats
}

package aggregate

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/playlens/internal/model"
)

// Merge combines several reports into one. Groups are the sorted union,
// counts and stats are summed. Nil reports are skipped.
func Merge(reports ...*model.Report) *model.Report {
	counts := make(map[string]int)
	var (
		stats    model.Stats
		sources  []string
		keywords []string
		attr     string
	)

	for _, r := range reports {
		if r == nil {
			continue
		}
		sources = append(sources, r.Source)
		stats = stats.Add(r.Stats)
		if keywords == nil {
			keywords = slices.Clone(r.Keywords)
			attr = r.Attribute
		}

		for _, g := range r.Groups {
			if _, ok := counts[g]; !ok {
				counts[g] = 0
			}
		}
		for g, n := range r.Counts {
			counts[g] += n
		}
	}

	groups := slices.AppendSeq(make([]string, 0, len(counts)), maps.Keys(counts))
	slices.Sort(groups)

	return &model.Report{
		RunID:      uuid.NewString(),
		Source:     strings.Join(sources, ","),
		AnalyzedAt: time.Now().UTC(),
		Keywords:   keywords,
		Attribute:  attr,
		Groups:     groups,
		Counts:     counts,
		Stats:      stats,
	}
}

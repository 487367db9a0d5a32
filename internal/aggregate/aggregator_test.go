package aggregate

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/playlens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_RecordIsIdempotent(t *testing.T) {
	a := NewAggregator()

	assert.True(t, a.Record("TR: Ulusal"))
	assert.False(t, a.Record("TR: Ulusal"))
	assert.Equal(t, 1, a.Len())

	assert.Equal(t, map[string]int{"TR: Ulusal": 2}, a.Counts())
	assert.Equal(t, 2, a.Stats().Matched)
}

func TestAggregator_DistinctRawForms(t *testing.T) {
	a := NewAggregator()

	a.Record("Türk Kanallari")
	a.Record("TURK KANALLARI")
	a.Record("TURK KANALLARI!")

	assert.Equal(t, 3, a.Len())
}

func TestAggregator_LabelsSortedByteOrder(t *testing.T) {
	a := NewAggregator()

	for _, l := range []string{"ulusal", "TR: Ulusal", "Türk", "TR: Haber", "Ulusal", "TR: Haber"} {
		a.Record(l)
	}

	labels := a.Labels()
	// Uppercase sorts before lowercase, multi-byte runes after ASCII
	assert.Equal(t, []string{"TR: Haber", "TR: Ulusal", "Türk", "Ulusal", "ulusal"}, labels)
	assert.True(t, slices.IsSorted(labels))
}

func TestAggregator_Empty(t *testing.T) {
	a := NewAggregator()

	assert.Empty(t, a.Labels())
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, model.Stats{}, a.Stats())
}

func TestAggregator_Counters(t *testing.T) {
	a := NewAggregator()

	a.Line()
	a.Line()
	a.Line()
	a.Directive()
	a.Directive()
	a.Entry()
	a.OrphanURI()
	a.Unlabeled()
	a.Record("TR")

	assert.Equal(t, model.Stats{
		Lines:      3,
		Directives: 2,
		Entries:    1,
		OrphanURIs: 1,
		Unlabeled:  1,
		Matched:    1,
	}, a.Stats())
}

func TestAggregator_CountsIsACopy(t *testing.T) {
	a := NewAggregator()
	a.Record("TR")

	c := a.Counts()
	c["TR"] = 99
	c["other"] = 1

	assert.Equal(t, map[string]int{"TR": 1}, a.Counts())
}

func TestMerge(t *testing.T) {
	r1 := &model.Report{
		Source:    "a.m3u",
		Keywords:  []string{"TR"},
		Attribute: "group-title",
		Groups:    []string{"TR: Ulusal", "Türk"},
		Counts:    map[string]int{"TR: Ulusal": 2, "Türk": 1},
		Stats:     model.Stats{Lines: 10, Directives: 4, Matched: 3},
	}
	r2 := &model.Report{
		Source:    "b.m3u",
		Keywords:  []string{"TR"},
		Attribute: "group-title",
		Groups:    []string{"Electro", "TR: Ulusal"},
		Counts:    map[string]int{"Electro": 1, "TR: Ulusal": 1},
		Stats:     model.Stats{Lines: 5, Directives: 2, Matched: 2},
	}

	merged := Merge(r1, nil, r2)
	require.NotNil(t, merged)

	want := []string{"Electro", "TR: Ulusal", "Türk"}
	if diff := cmp.Diff(want, merged.Groups); diff != "" {
		t.Errorf("merged groups mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]int{"Electro": 1, "TR: Ulusal": 3, "Türk": 1}, merged.Counts)
	assert.Equal(t, model.Stats{Lines: 15, Directives: 6, Matched: 5}, merged.Stats)
	assert.Equal(t, "a.m3u,b.m3u", merged.Source)
	assert.Equal(t, []string{"TR"}, merged.Keywords)
	assert.NotEmpty(t, merged.RunID)
}

func TestMerge_NoReports(t *testing.T) {
	merged := Merge()
	assert.Empty(t, merged.Groups)
	assert.Equal(t, model.Stats{}, merged.Stats)
}

func TestMerge_GroupsWithoutCounts(t *testing.T) {
	merged := Merge(&model.Report{Groups: []string{"b", "a", "b"}})
	assert.Equal(t, []string{"a", "b"}, merged.Groups)
}

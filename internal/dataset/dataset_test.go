package dataset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchdash/pkg/contracts/domain"
)

func fixtureRows() []domain.Launch {
	return []domain.Launch{
		{Site: "A", Outcome: 1, PayloadMassKG: 500, BoosterCategory: "v1"},
		{Site: "A", Outcome: 0, PayloadMassKG: 1500, BoosterCategory: "v1"},
		{Site: "B", Outcome: 1, PayloadMassKG: 2500, BoosterCategory: "v2"},
	}
}

func TestDataset_Columns(t *testing.T) {
	ds := New("fixture", fixtureRows())

	assert.Equal(t, "fixture", ds.Source())
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"A", "A", "B"}, ds.Sites())
	assert.Equal(t, []int{1, 0, 1}, ds.Outcomes())
	assert.Equal(t, []float64{500, 1500, 2500}, ds.Payloads())
	assert.Equal(t, []string{"v1", "v1", "v2"}, ds.Boosters())
	assert.Equal(t, []string{"A", "B"}, ds.DistinctSites())
	assert.Equal(t, []string{"v1", "v2"}, ds.DistinctBoosters())
	assert.True(t, ds.HasSite("B"))
	assert.False(t, ds.HasSite("C"))

	lo, hi := ds.PayloadBounds()
	assert.Equal(t, 500.0, lo)
	assert.Equal(t, 2500.0, hi)
}

func TestDataset_IsolatedFromCallerSlices(t *testing.T) {
	rows := fixtureRows()
	ds := New("fixture", rows)

	rows[0].Site = "mutated"
	assert.Equal(t, "A", ds.Row(0).Site)

	out := ds.Rows()
	out[1].Outcome = 1
	assert.Equal(t, 0, ds.Row(1).Outcome)
}

func TestDataset_WhereReturnsFreshView(t *testing.T) {
	ds := New("fixture", fixtureRows())
	before := ds.Rows()

	view := ds.Where(func(l domain.Launch) bool { return l.Site == "A" })
	require.Equal(t, 2, view.Len())
	assert.Equal(t, "fixture", view.Source())

	empty := ds.Where(func(domain.Launch) bool { return false })
	assert.Equal(t, 0, empty.Len())

	if diff := cmp.Diff(before, ds.Rows()); diff != "" {
		t.Errorf("parent dataset changed (-before +after):\n%s", diff)
	}
}

func TestDataset_Summary(t *testing.T) {
	ds := New("fixture", fixtureRows())

	want := domain.DatasetSummary{
		Source:       "fixture",
		Rows:         3,
		Sites:        []string{"A", "B"},
		Boosters:     []string{"v1", "v2"},
		Successes:    2,
		MinPayloadKG: 500,
		MaxPayloadKG: 2500,
	}
	if diff := cmp.Diff(want, ds.Summary()); diff != "" {
		t.Errorf("Summary() mismatch (-want +got):\n%s", diff)
	}
}

func TestDataset_EmptyBounds(t *testing.T) {
	ds := New("empty", nil)
	lo, hi := ds.PayloadBounds()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
	assert.Empty(t, ds.DistinctSites())
}

package filter

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchdash/internal/dataset"
	"launchdash/internal/shared/testutil"
	"launchdash/pkg/contracts/domain"
)

func scenario() *dataset.Dataset {
	return testutil.ScenarioDataset()
}

func wider() *dataset.Dataset {
	return dataset.New("wider", []domain.Launch{
		{Site: "CCAFS LC-40", Outcome: 0, PayloadMassKG: 0, BoosterCategory: "v1.0"},
		{Site: "VAFB SLC-4E", Outcome: 0, PayloadMassKG: 500, BoosterCategory: "v1.1"},
		{Site: "KSC LC-39A", Outcome: 1, PayloadMassKG: 2490, BoosterCategory: "FT"},
		{Site: "CCAFS LC-40", Outcome: 1, PayloadMassKG: 3669, BoosterCategory: "FT"},
		{Site: "KSC LC-39A", Outcome: 1, PayloadMassKG: 5300, BoosterCategory: "FT"},
		{Site: "KSC LC-39A", Outcome: 0, PayloadMassKG: 5600, BoosterCategory: "FT"},
		{Site: "CCAFS SLC-40", Outcome: 1, PayloadMassKG: 3669, BoosterCategory: "B4"},
		{Site: "VAFB SLC-4E", Outcome: 1, PayloadMassKG: 9600, BoosterCategory: "FT"},
		{Site: "CCAFS SLC-40", Outcome: 1, PayloadMassKG: 15600, BoosterCategory: "B5"},
	})
}

func TestPie(t *testing.T) {
	tests := []struct {
		name string
		site string
		want domain.PieChart
	}{
		{
			name: "all sites counts successes per site",
			site: domain.SiteAll,
			want: domain.PieChart{
				Title:  "Total Successful Launches by Site",
				Site:   "ALL",
				Slices: []domain.PieSlice{{Label: "A", Count: 1}, {Label: "B", Count: 1}},
				Total:  2,
			},
		},
		{
			name: "empty site means all",
			site: "",
			want: domain.PieChart{
				Title:  "Total Successful Launches by Site",
				Site:   "ALL",
				Slices: []domain.PieSlice{{Label: "A", Count: 1}, {Label: "B", Count: 1}},
				Total:  2,
			},
		},
		{
			name: "single site splits failure and success",
			site: "A",
			want: domain.PieChart{
				Title:  "Success vs Failure for A",
				Site:   "A",
				Slices: []domain.PieSlice{{Label: "0", Count: 1}, {Label: "1", Count: 1}},
				Total:  2,
			},
		},
		{
			name: "single site keeps a zero slice",
			site: "B",
			want: domain.PieChart{
				Title:  "Success vs Failure for B",
				Site:   "B",
				Slices: []domain.PieSlice{{Label: "0", Count: 0}, {Label: "1", Count: 1}},
				Total:  1,
			},
		},
		{
			name: "unknown site has no slices",
			site: "Z",
			want: domain.PieChart{
				Title:  "Success vs Failure for Z",
				Site:   "Z",
				Slices: []domain.PieSlice{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pie(scenario(), tt.site)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Pie(%q) mismatch (-want +got):\n%s", tt.site, diff)
			}
		})
	}
}

func TestScatter_Scenario(t *testing.T) {
	got := Scatter(scenario(), domain.SiteAll, domain.PayloadRange{Low: 0, High: 2000})

	want := domain.ScatterChart{
		Title:      "Success by Payload for ALL",
		Site:       "ALL",
		Payload:    domain.PayloadRange{Low: 0, High: 2000},
		XLabel:     "Payload Mass (kg)",
		YLabel:     "class",
		Categories: []string{"v1"},
		Points: []domain.ScatterPoint{
			{Site: "A", PayloadMassKG: 500, Outcome: 1, BoosterCategory: "v1"},
			{Site: "A", PayloadMassKG: 1500, Outcome: 0, BoosterCategory: "v1"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scatter mismatch (-want +got):\n%s", diff)
	}
}

func TestScatter_Ranges(t *testing.T) {
	ds := wider()

	tests := []struct {
		name     string
		site     string
		payload  domain.PayloadRange
		wantMass []float64
	}{
		{"site restricts rows", "KSC LC-39A", domain.PayloadRange{Low: 0, High: 10000}, []float64{2490, 5300, 5600}},
		{"bounds are inclusive", domain.SiteAll, domain.PayloadRange{Low: 500, High: 3669}, []float64{500, 2490, 3669, 3669}},
		{"degenerate range matches exact mass", domain.SiteAll, domain.PayloadRange{Low: 3669, High: 3669}, []float64{3669, 3669}},
		{"inverted range is empty", domain.SiteAll, domain.PayloadRange{Low: 5000, High: 100}, nil},
		{"NaN bound is empty", domain.SiteAll, domain.PayloadRange{Low: math.NaN(), High: 100}, nil},
		{"range outside data is empty", domain.SiteAll, domain.PayloadRange{Low: 20000, High: 30000}, nil},
		{"unknown site is empty", "Z", domain.PayloadRange{Low: 0, High: 20000}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scatter(ds, tt.site, tt.payload)
			var mass []float64
			for _, p := range got.Points {
				mass = append(mass, p.PayloadMassKG)
				assert.True(t, p.PayloadMassKG >= tt.payload.Low && p.PayloadMassKG <= tt.payload.High)
				if tt.site != domain.SiteAll {
					assert.Equal(t, tt.site, p.Site)
				}
			}
			assert.Equal(t, tt.wantMass, mass)
			assert.NotNil(t, got.Points)
		})
	}
}

func TestScatter_CategoriesInFirstAppearanceOrder(t *testing.T) {
	got := Scatter(wider(), domain.SiteAll, FullRange(wider()))
	assert.Equal(t, []string{"v1.0", "v1.1", "FT", "B4", "B5"}, got.Categories)
}

func TestPieProperties(t *testing.T) {
	ds := wider()
	summary := ds.Summary()

	all := Pie(ds, domain.SiteAll)
	assert.Equal(t, summary.Successes, all.Total)
	sum := 0
	for _, s := range all.Slices {
		assert.Positive(t, s.Count)
		sum += s.Count
	}
	assert.Equal(t, all.Total, sum)

	for _, site := range ds.DistinctSites() {
		pie := Pie(ds, site)
		require.Len(t, pie.Slices, 2, site)
		assert.Equal(t, "0", pie.Slices[0].Label)
		assert.Equal(t, "1", pie.Slices[1].Label)
		rows := ds.Where(func(l domain.Launch) bool { return l.Site == site }).Len()
		assert.Equal(t, rows, pie.Slices[0].Count+pie.Slices[1].Count, site)
	}
}

func TestScatterProperties(t *testing.T) {
	ds := wider()

	full := Scatter(ds, domain.SiteAll, FullRange(ds))
	require.Len(t, full.Points, ds.Len())
	for i, p := range full.Points {
		row := ds.Row(i)
		assert.Equal(t, row.Site, p.Site)
		assert.Equal(t, row.PayloadMassKG, p.PayloadMassKG)
	}

	r := domain.PayloadRange{Low: 1000, High: 6000}
	first := Scatter(ds, "KSC LC-39A", r)
	second := Scatter(ds, "KSC LC-39A", r)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Scatter is not idempotent:\n%s", diff)
	}
}

func TestFiltersDoNotMutateDataset(t *testing.T) {
	ds := wider()
	before := ds.Rows()

	Pie(ds, domain.SiteAll)
	Pie(ds, "KSC LC-39A")
	Scatter(ds, "VAFB SLC-4E", domain.PayloadRange{Low: 0, High: 1000})
	View(ds, domain.SiteAll, domain.PayloadRange{Low: 0, High: 1000})

	if diff := cmp.Diff(before, ds.Rows()); diff != "" {
		t.Errorf("dataset mutated (-before +after):\n%s", diff)
	}
}

func TestView(t *testing.T) {
	ds := wider()
	view := View(ds, "CCAFS LC-40", domain.PayloadRange{Low: 0, High: 5000})

	assert.Equal(t, 2, view.Len())
	assert.Equal(t, []float64{0, 3669}, view.Payloads())
}

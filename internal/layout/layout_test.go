package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchdash/internal/config"
	"launchdash/internal/dataset"
	"launchdash/pkg/contracts/domain"
)

func fixture() *dataset.Dataset {
	return dataset.New("fixture", []domain.Launch{
		{Site: "CCAFS LC-40", Outcome: 0, PayloadMassKG: 0, BoosterCategory: "v1.0"},
		{Site: "VAFB SLC-4E", Outcome: 1, PayloadMassKG: 9600, BoosterCategory: "FT"},
		{Site: "CCAFS LC-40", Outcome: 1, PayloadMassKG: 3669.5, BoosterCategory: "FT"},
	})
}

func TestSiteDropdown(t *testing.T) {
	dd := SiteDropdown(fixture())

	want := []Option{
		{Label: "All Sites", Value: "ALL"},
		{Label: "CCAFS LC-40", Value: "CCAFS LC-40"},
		{Label: "VAFB SLC-4E", Value: "VAFB SLC-4E"},
	}
	if diff := cmp.Diff(want, dd.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, domain.ControlSiteDropdown, dd.ID)
	assert.Equal(t, domain.SiteAll, dd.Value)
	assert.Equal(t, "Select a Launch Site", dd.Placeholder)
	assert.True(t, dd.Searchable)
}

func TestPayloadSlider(t *testing.T) {
	s := PayloadSlider(fixture(), 1000)

	assert.Equal(t, domain.ControlPayloadSlider, s.ID)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 9600.0, s.Max)
	assert.Equal(t, []float64{0, 9600}, s.Value)
	require.Len(t, s.Marks, 10)
	assert.Equal(t, Mark{Value: 9000, Label: "9000"}, s.Marks[9])
}

func TestPayloadSlider_InvalidStepFallsBack(t *testing.T) {
	assert.Equal(t, DefaultSliderStep, PayloadSlider(fixture(), 0).Step)
	assert.Equal(t, DefaultSliderStep, PayloadSlider(fixture(), -5).Step)
}

func TestMarks(t *testing.T) {
	tests := []struct {
		name    string
		lo, hi  float64
		step    float64
		want    []float64
		wantLen int
	}{
		{name: "fractional bounds", lo: 0.4, hi: 2000.2, step: 1000, want: []float64{0, 1000, 2000}},
		{name: "end inclusive", lo: 0, hi: 2000, step: 500, want: []float64{0, 500, 1000, 1500, 2000}},
		{name: "single point", lo: 300, hi: 300, step: 1000, want: []float64{300}},
		{name: "dense steps are thinned", lo: 0, hi: 100000, step: 1, wantLen: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marks := Marks(tt.lo, tt.hi, tt.step)
			if tt.want != nil {
				var got []float64
				for _, m := range marks {
					got = append(got, m.Value)
				}
				assert.Equal(t, tt.want, got)
				return
			}
			assert.LessOrEqual(t, len(marks), tt.wantLen)
			assert.Equal(t, 0.0, marks[0].Value)
		})
	}
}

func TestBuild(t *testing.T) {
	l := Build(fixture(), config.DashboardConfig{SliderStep: 2500})

	assert.Equal(t, "SpaceX Launch Records Dashboard", l.Title)
	assert.Equal(t, 2500.0, l.Slider.Step)
	assert.Equal(t, []string{domain.OutputPieChart, domain.OutputScatterChart}, l.Outputs)

	custom := Build(fixture(), config.DashboardConfig{Title: "Launches", SliderStep: 1000})
	assert.Equal(t, "Launches", custom.Title)
}

package charts

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchdash/pkg/contracts/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func samplePie() domain.PieChart {
	return domain.PieChart{
		Title:  "Total Successful Launches by Site",
		Site:   "ALL",
		Slices: []domain.PieSlice{{Label: "KSC LC-39A", Count: 10}, {Label: "CCAFS LC-40", Count: 7}},
		Total:  17,
	}
}

func sampleScatter() domain.ScatterChart {
	return domain.ScatterChart{
		Title:      "Success by Payload for ALL",
		Site:       "ALL",
		Payload:    domain.PayloadRange{Low: 0, High: 10000},
		XLabel:     "Payload Mass (kg)",
		YLabel:     "class",
		Categories: []string{"v1.0", "FT"},
		Points: []domain.ScatterPoint{
			{Site: "CCAFS LC-40", PayloadMassKG: 0, Outcome: 0, BoosterCategory: "v1.0"},
			{Site: "CCAFS LC-40", PayloadMassKG: 525, Outcome: 0, BoosterCategory: "v1.0"},
			{Site: "KSC LC-39A", PayloadMassKG: 2490, Outcome: 1, BoosterCategory: "FT"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".SVG")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	f, err = ParseFormat("png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType())

	_, err = ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRenderer_Pie(t *testing.T) {
	r := NewRenderer(400, 300)

	tests := []struct {
		name string
		pie  domain.PieChart
	}{
		{"all sites", samplePie()},
		{"site with a zero slice", domain.PieChart{
			Title:  "Success vs Failure for VAFB SLC-4E",
			Slices: []domain.PieSlice{{Label: "0", Count: 0}, {Label: "1", Count: 3}},
			Total:  3,
		}},
		{"unknown site", domain.PieChart{Title: "Success vs Failure for Z", Slices: []domain.PieSlice{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svg bytes.Buffer
			require.NoError(t, r.Pie(&svg, tt.pie, FormatSVG))
			assert.Contains(t, svg.String(), "<svg")

			var png bytes.Buffer
			require.NoError(t, r.Pie(&png, tt.pie, FormatPNG))
			assert.True(t, bytes.HasPrefix(png.Bytes(), pngMagic))
		})
	}
}

func TestRenderer_Scatter(t *testing.T) {
	r := NewRenderer(0, 0)

	empty := sampleScatter()
	empty.Points = []domain.ScatterPoint{}
	empty.Categories = []string{}

	single := sampleScatter()
	single.Payload = domain.PayloadRange{Low: 2490, High: 2490}
	single.Points = single.Points[2:]
	single.Categories = []string{"FT"}

	inverted := empty
	inverted.Payload = domain.PayloadRange{Low: 5000, High: 100}

	outside := empty
	outside.Payload = domain.PayloadRange{Low: 90000, High: 95000}

	tests := []struct {
		name    string
		scatter domain.ScatterChart
	}{
		{"points", sampleScatter()},
		{"no points", empty},
		{"single payload value", single},
		{"inverted range", inverted},
		{"range outside data", outside},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svg bytes.Buffer
			require.NoError(t, r.Scatter(&svg, tt.scatter, FormatSVG))
			assert.Contains(t, svg.String(), "<svg")

			var png bytes.Buffer
			require.NoError(t, r.Scatter(&png, tt.scatter, FormatPNG))
			assert.True(t, bytes.HasPrefix(png.Bytes(), pngMagic))
		})
	}
}

func TestXRange(t *testing.T) {
	lo, hi := xRange(sampleScatter())
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 10000.0, hi)

	s := sampleScatter()
	s.Payload = domain.PayloadRange{Low: math.NaN(), High: 1}
	lo, hi = xRange(s)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 2490.0, hi)

	s.Points = nil
	lo, hi = xRange(s)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestRenderer_ScatterWithoutPointsDrawsNoMarks(t *testing.T) {
	empty := sampleScatter()
	empty.Points = nil
	empty.Categories = nil

	var svg bytes.Buffer
	require.NoError(t, NewRenderer(0, 0).Scatter(&svg, empty, FormatSVG))
	assert.Contains(t, svg.String(), empty.Title)
	assert.NotContains(t, svg.String(), "<circle")
}

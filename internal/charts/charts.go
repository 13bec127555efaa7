// Package charts renders dashboard chart specifications to SVG or PNG.
package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"launchdash/pkg/contracts/domain"
)

// ErrUnsupportedFormat is returned for image formats other than SVG and PNG.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an output image format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat maps a file extension or name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return chart.ContentTypePNG
	}
	return chart.ContentTypeSVG
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

// noDataLabel marks the placeholder slice of an empty pie.
const noDataLabel = "No data"

// Renderer draws charts at a fixed size.
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a renderer producing images of width x height pixels.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 500
	}
	return &Renderer{width: width, height: height}
}

// Pie renders p. Zero slices are omitted; a chart without any count is
// drawn as a single grey "No data" slice.
func (r *Renderer) Pie(w io.Writer, p domain.PieChart, f Format) error {
	values := make([]chart.Value, 0, len(p.Slices))
	for i, s := range p.Slices {
		if s.Count <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Label, s.Count),
			Value: float64(s.Count),
			Style: chart.Style{FillColor: chart.GetDefaultColor(i), StrokeColor: drawing.ColorWhite, StrokeWidth: 1},
		})
	}
	if len(values) == 0 {
		values = append(values, chart.Value{
			Label: noDataLabel,
			Value: 1,
			Style: chart.Style{FillColor: chart.ColorAlternateGray, StrokeColor: drawing.ColorWhite},
		})
	}

	pc := chart.PieChart{
		Title:  p.Title,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}
	if err := pc.Render(f.provider(), w); err != nil {
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	return nil
}

// Scatter renders s with one point series per booster category.
func (r *Renderer) Scatter(w io.Writer, s domain.ScatterChart, f Format) error {
	series := make([]chart.Series, 0, len(s.Categories)+1)
	for i, category := range s.Categories {
		var xs, ys []float64
		for _, p := range s.Points {
			if p.BoosterCategory != category {
				continue
			}
			xs = append(xs, p.PayloadMassKG)
			ys = append(ys, float64(p.Outcome))
		}
		series = append(series, chart.ContinuousSeries{
			Name:    category,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(chart.GetDefaultColor(i)),
		})
	}

	xMin, xMax := xRange(s)
	if len(series) == 0 {
		// go-chart needs one visible series; this one paints nothing
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{xMin, xMax},
			YValues: []float64{0, 0},
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				StrokeColor: drawing.ColorTransparent,
				DotWidth:    0,
				DotColor:    drawing.ColorTransparent,
			},
		})
	}

	ch := chart.Chart{
		Title:      s.Title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  s.XLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  s.YLabel,
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	if len(s.Categories) > 0 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	if err := ch.Render(f.provider(), w); err != nil {
		return fmt.Errorf("failed to render scatter chart: %w", err)
	}
	return nil
}

// pointStyle draws points only, without connecting lines.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

// xRange picks the horizontal axis: the selected payload range when it is
// usable, otherwise the span of the points, padded so it is never empty.
func xRange(s domain.ScatterChart) (float64, float64) {
	lo, hi := s.Payload.Low, s.Payload.High
	if s.Payload.Empty() || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, p := range s.Points {
			lo = math.Min(lo, p.PayloadMassKG)
			hi = math.Max(hi, p.PayloadMassKG)
		}
		if math.IsInf(lo, 0) {
			lo, hi = 0, 1
		}
	}
	if hi-lo < 1 {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}

// Package layout describes the dashboard controls and their defaults as
// derived from the loaded dataset.
package layout

import (
	"math"
	"strconv"

	"launchdash/internal/config"
	"launchdash/internal/dataset"
	"launchdash/pkg/contracts/domain"
)

const (
	// AllSitesLabel is the dropdown label of the SiteAll option.
	AllSitesLabel = "All Sites"
	// SitePlaceholder is shown while the dropdown is empty.
	SitePlaceholder = "Select a Launch Site"
	// DefaultSliderStep is used when the configured step is not positive.
	DefaultSliderStep = 1000.0
	// maxMarks bounds the number of labelled slider ticks.
	maxMarks = 50
)

// Option is one dropdown entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Dropdown is the launch site selector.
type Dropdown struct {
	ID          string   `json:"id"`
	Options     []Option `json:"options"`
	Value       string   `json:"value"`
	Placeholder string   `json:"placeholder"`
	Searchable  bool     `json:"searchable"`
}

// Mark is a labelled tick of the range slider.
type Mark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// RangeSlider is the payload range selector.
type RangeSlider struct {
	ID    string    `json:"id"`
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
	Step  float64   `json:"step"`
	Marks []Mark    `json:"marks"`
	Value []float64 `json:"value"`
}

// Layout is the full UI surface of the dashboard page.
type Layout struct {
	Title    string      `json:"title"`
	Dropdown Dropdown    `json:"site_dropdown"`
	Slider   RangeSlider `json:"payload_slider"`
	Outputs  []string    `json:"outputs"`
}

// Build derives the layout from ds.
func Build(ds *dataset.Dataset, cfg config.DashboardConfig) Layout {
	title := cfg.Title
	if title == "" {
		title = config.Default().Dashboard.Title
	}
	return Layout{
		Title:    title,
		Dropdown: SiteDropdown(ds),
		Slider:   PayloadSlider(ds, cfg.SliderStep),
		Outputs:  []string{domain.OutputPieChart, domain.OutputScatterChart},
	}
}

// SiteDropdown lists "All Sites" followed by every site in order of first
// appearance.
func SiteDropdown(ds *dataset.Dataset) Dropdown {
	sites := ds.DistinctSites()
	opts := make([]Option, 0, len(sites)+1)
	opts = append(opts, Option{Label: AllSitesLabel, Value: domain.SiteAll})
	for _, s := range sites {
		opts = append(opts, Option{Label: s, Value: s})
	}
	return Dropdown{
		ID:          domain.ControlSiteDropdown,
		Options:     opts,
		Value:       domain.SiteAll,
		Placeholder: SitePlaceholder,
		Searchable:  true,
	}
}

// PayloadSlider spans the observed payload range and defaults to all of it.
func PayloadSlider(ds *dataset.Dataset, step float64) RangeSlider {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		step = DefaultSliderStep
	}
	lo, hi := ds.PayloadBounds()
	return RangeSlider{
		ID:    domain.ControlPayloadSlider,
		Min:   lo,
		Max:   hi,
		Step:  step,
		Marks: Marks(lo, hi, step),
		Value: []float64{lo, hi},
	}
}

// Marks returns ticks every step from floor(lo) up to ceil(hi). When that
// would exceed maxMarks ticks the interval grows to a multiple of step.
func Marks(lo, hi, step float64) []Mark {
	start, end := math.Floor(lo), math.Ceil(hi)
	if step <= 0 || end < start {
		return []Mark{}
	}

	interval := step
	if n := (end - start) / step; n >= maxMarks {
		interval = step * math.Ceil(n/(maxMarks-1))
	}

	marks := make([]Mark, 0, int((end-start)/interval)+1)
	for i := 0; ; i++ {
		v := start + float64(i)*interval
		if v > end {
			break
		}
		marks = append(marks, Mark{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return marks
}

package domain

import "math"

// Control identifiers of the dashboard inputs.
const (
	ControlSiteDropdown  = "site-dropdown"
	ControlPayloadSlider = "payload-slider"
)

// Output identifiers of the dashboard charts.
const (
	OutputPieChart     = "success-pie-chart"
	OutputScatterChart = "success-payload-scatter-chart"
)

// PayloadRange is an inclusive payload mass interval in kilograms.
type PayloadRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether mass lies in [Low, High].
// A range with Low > High or a NaN bound contains nothing.
func (r PayloadRange) Contains(mass float64) bool {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) {
		return false
	}
	return mass >= r.Low && mass <= r.High
}

// Empty reports whether no payload value can fall in the range.
func (r PayloadRange) Empty() bool {
	return math.IsNaN(r.Low) || math.IsNaN(r.High) || r.Low > r.High
}

// Slice returns the range as the [low, high] pair used by the range selector.
func (r PayloadRange) Slice() []float64 {
	return []float64{r.Low, r.High}
}

// Selection is a snapshot of the dashboard control values.
type Selection struct {
	Site    string       `json:"site"`
	Payload PayloadRange `json:"payload"`
}

// NormalizedSite returns the selected site, defaulting to SiteAll.
func (s Selection) NormalizedSite() string {
	if s.Site == "" {
		return SiteAll
	}
	return s.Site
}

// ControlChange is a single control value change coming from the UI.
// Value holds a site string for the site dropdown and a [low, high]
// pair for the payload slider.
type ControlChange struct {
	Control string      `json:"control"`
	Value   interface{} `json:"value"`
}

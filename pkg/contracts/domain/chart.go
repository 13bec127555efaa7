package domain

// PieSlice is one category of a pie chart
type PieSlice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PieChart is the aggregated launch outcome chart
type PieChart struct {
	Title  string     `json:"title"`
	Site   string     `json:"site"`
	Slices []PieSlice `json:"slices"`
	Total  int        `json:"total"`
}

// Counts returns the slice counts keyed by label.
func (p PieChart) Counts() map[string]int {
	counts := make(map[string]int, len(p.Slices))
	for _, s := range p.Slices {
		counts[s.Label] = s.Count
	}
	return counts
}

// ScatterPoint is one launch projected for the payload scatter plot
type ScatterPoint struct {
	Site            string  `json:"launch_site"`
	PayloadMassKG   float64 `json:"payload_mass_kg"`
	Outcome         int     `json:"class"`
	BoosterCategory string  `json:"booster_version_category"`
}

// ScatterChart is the payload versus outcome chart
type ScatterChart struct {
	Title      string         `json:"title"`
	Site       string         `json:"site"`
	Payload    PayloadRange   `json:"payload"`
	XLabel     string         `json:"x_label"`
	YLabel     string         `json:"y_label"`
	Categories []string       `json:"categories"`
	Points     []ScatterPoint `json:"points"`
}

// OutputUpdate carries a recomputed chart for one dashboard output.
type OutputUpdate struct {
	Output  string      `json:"output"`
	Trigger string      `json:"trigger,omitempty"`
	Figure  interface{} `json:"figure"`
}

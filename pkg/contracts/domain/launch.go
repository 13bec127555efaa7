package domain

// Outcome values carried in the class column of the launch records.
const (
	OutcomeFailure = 0
	OutcomeSuccess = 1
)

// SiteAll selects every launch site.
const SiteAll = "ALL"

// Launch represents one launch record of the dashboard dataset.
// Records are immutable once loaded.
type Launch struct {
	FlightNumber    int     `json:"flight_number,omitempty"`
	Site            string  `json:"launch_site" validate:"required"`
	Outcome         int     `json:"class" validate:"oneof=0 1"`
	PayloadMassKG   float64 `json:"payload_mass_kg" validate:"min=0"`
	BoosterVersion  string  `json:"booster_version,omitempty"`
	BoosterCategory string  `json:"booster_version_category" validate:"required"`
}

// Succeeded reports whether the launch outcome is a success.
func (l Launch) Succeeded() bool {
	return l.Outcome == OutcomeSuccess
}

// DatasetSummary describes a loaded dataset
type DatasetSummary struct {
	Source       string   `json:"source"`
	Rows         int      `json:"rows"`
	Sites        []string `json:"sites"`
	Boosters     []string `json:"booster_categories"`
	Successes    int      `json:"successes"`
	MinPayloadKG float64  `json:"min_payload_kg"`
	MaxPayloadKG float64  `json:"max_payload_kg"`
}

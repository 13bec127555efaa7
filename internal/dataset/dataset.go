// Package dataset holds the launch records table the dashboard is built on.
//
// A Dataset is loaded once at startup and never mutated afterwards. Every
// filtering operation returns a new Dataset that shares no mutable state
// with its parent, so a single instance can be read from any number of
// goroutines.
package dataset

import (
	"math"

	"launchdash/pkg/contracts/domain"
)

// Dataset is an ordered, immutable sequence of launch records.
type Dataset struct {
	source string
	rows   []domain.Launch
}

// New builds a Dataset over a copy of rows.
func New(source string, rows []domain.Launch) *Dataset {
	cp := make([]domain.Launch, len(rows))
	copy(cp, rows)
	return &Dataset{source: source, rows: cp}
}

// Source returns the location the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Row returns the i-th row. It panics if i is out of range.
func (d *Dataset) Row(i int) domain.Launch { return d.rows[i] }

// Rows returns a copy of all rows in dataset order.
func (d *Dataset) Rows() []domain.Launch {
	cp := make([]domain.Launch, len(d.rows))
	copy(cp, d.rows)
	return cp
}

// Sites returns the launch site column.
func (d *Dataset) Sites() []string {
	out := make([]string, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Site
	}
	return out
}

// Outcomes returns the class column.
func (d *Dataset) Outcomes() []int {
	out := make([]int, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Outcome
	}
	return out
}

// Payloads returns the payload mass column.
func (d *Dataset) Payloads() []float64 {
	out := make([]float64, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.PayloadMassKG
	}
	return out
}

// Boosters returns the booster version category column.
func (d *Dataset) Boosters() []string {
	out := make([]string, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.BoosterCategory
	}
	return out
}

// DistinctSites returns every launch site once, in order of first appearance.
func (d *Dataset) DistinctSites() []string {
	return distinct(d.rows, func(l domain.Launch) string { return l.Site })
}

// DistinctBoosters returns every booster category once, in order of first appearance.
func (d *Dataset) DistinctBoosters() []string {
	return distinct(d.rows, func(l domain.Launch) string { return l.BoosterCategory })
}

// HasSite reports whether any row was launched from site.
func (d *Dataset) HasSite(site string) bool {
	for _, r := range d.rows {
		if r.Site == site {
			return true
		}
	}
	return false
}

// PayloadBounds returns the smallest and largest payload mass.
// Both are zero for an empty dataset.
func (d *Dataset) PayloadBounds() (lo, hi float64) {
	if len(d.rows) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range d.rows {
		lo = math.Min(lo, r.PayloadMassKG)
		hi = math.Max(hi, r.PayloadMassKG)
	}
	return lo, hi
}

// Where returns a new Dataset holding the rows matching pred, in order.
func (d *Dataset) Where(pred func(domain.Launch) bool) *Dataset {
	var out []domain.Launch
	for _, r := range d.rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return &Dataset{source: d.source, rows: out}
}

// Summary describes the dataset for the API and the CLI.
func (d *Dataset) Summary() domain.DatasetSummary {
	lo, hi := d.PayloadBounds()
	successes := 0
	for _, r := range d.rows {
		if r.Succeeded() {
			successes++
		}
	}
	return domain.DatasetSummary{
		Source:       d.source,
		Rows:         len(d.rows),
		Sites:        d.DistinctSites(),
		Boosters:     d.DistinctBoosters(),
		Successes:    successes,
		MinPayloadKG: lo,
		MaxPayloadKG: hi,
	}
}

func distinct(rows []domain.Launch, key func(domain.Launch) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

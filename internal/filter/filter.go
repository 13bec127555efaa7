// Package filter computes the dashboard chart specifications from the
// launch dataset. Every function is pure: it reads the dataset and a
// selection snapshot and never mutates either.
package filter

import (
	"fmt"
	"strconv"

	"launchdash/internal/dataset"
	"launchdash/pkg/contracts/domain"
)

// Chart titles and axis labels.
const (
	TitleAllSitesPie = "Total Successful Launches by Site"
	titleSitePie     = "Success vs Failure for %s"
	titleScatter     = "Success by Payload for %s"

	XLabelPayload = "Payload Mass (kg)"
	YLabelClass   = "class"
)

// Pie aggregates launch outcomes for site.
//
// For SiteAll it counts successful launches per site, one slice per site
// in order of first appearance. For a single site it counts failures and
// successes as two slices labelled "0" and "1". An unknown site yields a
// chart with no slices.
func Pie(ds *dataset.Dataset, site string) domain.PieChart {
	if site == "" {
		site = domain.SiteAll
	}

	if site == domain.SiteAll {
		chart := domain.PieChart{Title: TitleAllSitesPie, Site: site, Slices: []domain.PieSlice{}}
		index := make(map[string]int)
		for i := 0; i < ds.Len(); i++ {
			row := ds.Row(i)
			if !row.Succeeded() {
				continue
			}
			pos, ok := index[row.Site]
			if !ok {
				pos = len(chart.Slices)
				index[row.Site] = pos
				chart.Slices = append(chart.Slices, domain.PieSlice{Label: row.Site})
			}
			chart.Slices[pos].Count++
			chart.Total++
		}
		return chart
	}

	chart := domain.PieChart{Title: fmt.Sprintf(titleSitePie, site), Site: site, Slices: []domain.PieSlice{}}
	var counts [2]int
	matched := false
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		if row.Site != site {
			continue
		}
		matched = true
		if row.Succeeded() {
			counts[domain.OutcomeSuccess]++
		} else {
			counts[domain.OutcomeFailure]++
		}
	}
	if !matched {
		return chart
	}

	for outcome, n := range counts {
		chart.Slices = append(chart.Slices, domain.PieSlice{Label: strconv.Itoa(outcome), Count: n})
		chart.Total += n
	}
	return chart
}

// Scatter projects the launches of site whose payload lies in payload
// (bounds inclusive). Points keep dataset order. An empty or NaN range
// yields no points.
func Scatter(ds *dataset.Dataset, site string, payload domain.PayloadRange) domain.ScatterChart {
	if site == "" {
		site = domain.SiteAll
	}

	chart := domain.ScatterChart{
		Title:      fmt.Sprintf(titleScatter, site),
		Site:       site,
		Payload:    payload,
		XLabel:     XLabelPayload,
		YLabel:     YLabelClass,
		Categories: []string{},
		Points:     []domain.ScatterPoint{},
	}
	if payload.Empty() {
		return chart
	}

	seen := make(map[string]struct{})
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		if site != domain.SiteAll && row.Site != site {
			continue
		}
		if !payload.Contains(row.PayloadMassKG) {
			continue
		}
		chart.Points = append(chart.Points, domain.ScatterPoint{
			Site:            row.Site,
			PayloadMassKG:   row.PayloadMassKG,
			Outcome:         row.Outcome,
			BoosterCategory: row.BoosterCategory,
		})
		if _, ok := seen[row.BoosterCategory]; !ok {
			seen[row.BoosterCategory] = struct{}{}
			chart.Categories = append(chart.Categories, row.BoosterCategory)
		}
	}
	return chart
}

// View returns the launches behind Scatter as a derived dataset, used by
// exports.
func View(ds *dataset.Dataset, site string, payload domain.PayloadRange) *dataset.Dataset {
	if site == "" {
		site = domain.SiteAll
	}
	return ds.Where(func(l domain.Launch) bool {
		if site != domain.SiteAll && l.Site != site {
			return false
		}
		return payload.Contains(l.PayloadMassKG)
	})
}

// FullRange returns the payload range spanning every row of ds.
func FullRange(ds *dataset.Dataset) domain.PayloadRange {
	lo, hi := ds.PayloadBounds()
	return domain.PayloadRange{Low: lo, High: hi}
}

package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"launchdash/pkg/contracts/domain"
)

// Canonical column headers of the launch records file.
const (
	ColumnFlightNumber    = "Flight Number"
	ColumnLaunchSite      = "Launch Site"
	ColumnClass           = "class"
	ColumnPayloadMass     = "Payload Mass (kg)"
	ColumnBoosterVersion  = "Booster Version"
	ColumnBoosterCategory = "Booster Version Category"
)

var requiredColumns = []string{
	ColumnLaunchSite,
	ColumnClass,
	ColumnPayloadMass,
	ColumnBoosterCategory,
}

var optionalColumns = []string{
	ColumnFlightNumber,
	ColumnBoosterVersion,
}

// normalizeHeader lowercases and collapses whitespace so that "Launch  Site"
// and "launch site" address the same column.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// columnMap resolves the header row to column indexes. Unknown columns,
// including an unnamed index column, are ignored.
func columnMap(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		n := normalizeHeader(h)
		if n == "" {
			continue
		}
		if _, dup := byName[n]; !dup {
			byName[n] = i
		}
	}

	cols := make(map[string]int)
	var missing []string
	for _, c := range requiredColumns {
		idx, ok := byName[normalizeHeader(c)]
		if !ok {
			missing = append(missing, c)
			continue
		}
		cols[c] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	for _, c := range optionalColumns {
		if idx, ok := byName[normalizeHeader(c)]; ok {
			cols[c] = idx
		}
	}
	return cols, nil
}

// parseRecords converts raw records, header first, into a Dataset.
func parseRecords(source string, records [][]string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header", ErrEmptyDataset, source)
	}

	cols, err := columnMap(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]domain.Launch, 0, len(records)-1)
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row, err := parseRow(i+2, rec, cols)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, source)
	}
	return &Dataset{source: source, rows: rows}, nil
}

func parseRow(line int, rec []string, cols map[string]int) (domain.Launch, error) {
	cell := func(col string) string {
		idx, ok := cols[col]
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	var row domain.Launch

	row.Site = cell(ColumnLaunchSite)
	if row.Site == "" {
		return row, &RowError{Line: line, Column: ColumnLaunchSite, Reason: "empty value"}
	}

	raw := cell(ColumnClass)
	outcome, err := strconv.ParseFloat(raw, 64)
	if err != nil || (outcome != domain.OutcomeFailure && outcome != domain.OutcomeSuccess) {
		return row, &RowError{Line: line, Column: ColumnClass, Value: raw, Reason: "outcome must be 0 or 1"}
	}
	row.Outcome = int(outcome)

	raw = cell(ColumnPayloadMass)
	mass, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return row, &RowError{Line: line, Column: ColumnPayloadMass, Value: raw, Reason: "not a number"}
	}
	if mass < 0 {
		return row, &RowError{Line: line, Column: ColumnPayloadMass, Value: raw, Reason: "negative payload mass"}
	}
	row.PayloadMassKG = mass

	row.BoosterCategory = cell(ColumnBoosterCategory)
	if row.BoosterCategory == "" {
		return row, &RowError{Line: line, Column: ColumnBoosterCategory, Reason: "empty value"}
	}

	if raw = cell(ColumnFlightNumber); raw != "" {
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || n != math.Trunc(n) {
			return row, &RowError{Line: line, Column: ColumnFlightNumber, Value: raw, Reason: "not an integer"}
		}
		row.FlightNumber = int(n)
	}
	row.BoosterVersion = cell(ColumnBoosterVersion)

	return row, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"launchdash/internal/dataset"
	"launchdash/pkg/contracts/domain"
)

// SheetName is the worksheet written by XLSX exports.
const SheetName = "Launches"

// Headers are the exported columns, in order.
var Headers = []string{
	dataset.ColumnFlightNumber,
	dataset.ColumnLaunchSite,
	dataset.ColumnClass,
	dataset.ColumnPayloadMass,
	dataset.ColumnBoosterVersion,
	dataset.ColumnBoosterCategory,
}

// LaunchExporter writes dataset views
type LaunchExporter struct {
	csv    *CSVWriter
	logger *slog.Logger
}

// NewLaunchExporter creates a new launch exporter
func NewLaunchExporter(logger *slog.Logger) *LaunchExporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &LaunchExporter{csv: NewCSVWriter(logger), logger: logger}
}

// Record converts a launch into an export row
func Record(l domain.Launch) []string {
	return []string{
		formatOptionalInt(l.FlightNumber),
		l.Site,
		fmt.Sprintf("%d", l.Outcome),
		formatFloat(l.PayloadMassKG),
		l.BoosterVersion,
		l.BoosterCategory,
	}
}

// Records converts every row of ds
func Records(ds *dataset.Dataset) [][]string {
	records := make([][]string, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		records = append(records, Record(ds.Row(i)))
	}
	return records
}

// Export writes ds to w in format
func (e *LaunchExporter) Export(w io.Writer, ds *dataset.Dataset, format Format) error {
	switch format {
	case FormatCSV:
		return e.ExportCSV(w, ds)
	case FormatXLSX:
		return e.ExportXLSX(w, ds)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ExportCSV writes ds as CSV without a BOM
func (e *LaunchExporter) ExportCSV(w io.Writer, ds *dataset.Dataset) error {
	stream, err := e.csv.NewStreamWriter(w, Headers, false)
	if err != nil {
		return err
	}
	for i := 0; i < ds.Len(); i++ {
		if err := stream.WriteRecord(Record(ds.Row(i))); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return stream.Close()
}

// ExportXLSX writes ds as a single-sheet workbook with numeric cells for
// numeric columns
func (e *LaunchExporter) ExportXLSX(w io.Writer, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i := 0; i < ds.Len(); i++ {
		l := ds.Row(i)
		var flight interface{}
		if l.FlightNumber != 0 {
			flight = l.FlightNumber
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{flight, l.Site, l.Outcome, l.PayloadMassKG, l.BoosterVersion, l.BoosterCategory}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportFile writes ds to path, choosing the format from the extension
func (e *LaunchExporter) ExportFile(path string, ds *dataset.Dataset) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := e.Export(file, ds, format); err != nil {
		file.Close()
		return err
	}

	e.logger.Info("Export written",
		slog.String("file_path", path),
		slog.String("format", string(format)),
		slog.Int("rows", ds.Len()))
	return file.Close()
}

// Package exporter writes filtered launch views as CSV or XLSX.
//
// CSVWriter is the low-level writer with optional UTF-8 BOM for Excel.
// LaunchExporter turns a dataset view into rows using the same column
// headers the dataset loader reads, so an export can be loaded back as a
// dataset.
//
// Example usage:
//
//	view := filter.View(ds, "KSC LC-39A", domain.PayloadRange{Low: 0, High: 5000})
//	exp := exporter.NewLaunchExporter(logger)
//	err := exp.Export(w, view, exporter.FormatXLSX)
package exporter

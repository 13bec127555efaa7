package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"launchdash/internal/config"
)

// Format selects the decoder for a dataset source.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// resolveFormat picks the decoder from the configured format, falling back
// to the file extension.
func resolveFormat(format Format, name string) (Format, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatAuto, "":
	default:
		return "", fmt.Errorf("%w: format %q", ErrUnsupportedSource, format)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return FormatCSV, nil
	}
}

// ReadCSV decodes a comma separated launch records file.
func ReadCSV(r io.Reader, source string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", source, err)
	}
	return parseRecords(source, records)
}

// ReadXLSX decodes a workbook. An empty sheet name selects the first sheet.
func ReadXLSX(r io.Reader, source, sheet string) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", source, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: %s has no sheets", ErrEmptyDataset, source)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, source, err)
	}
	return parseRecords(source, rows)
}

// decode reads r with the decoder selected by format.
func decode(r io.Reader, source string, format Format, sheet string) (*Dataset, error) {
	resolved, err := resolveFormat(format, source)
	if err != nil {
		return nil, err
	}
	if resolved == FormatXLSX {
		return ReadXLSX(r, source, sheet)
	}
	return ReadCSV(r, source)
}

// LoadFile reads a local CSV or XLSX file.
func LoadFile(path string, format Format, sheet string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return decode(f, path, format, sheet)
}

// Loader loads the dataset described by the configuration.
type Loader struct {
	cfg      config.DatasetConfig
	logger   *slog.Logger
	s3Client ObjectGetter
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithS3Client overrides the client used for s3:// sources.
func WithS3Client(c ObjectGetter) LoaderOption {
	return func(l *Loader) { l.s3Client = c }
}

// NewLoader creates a loader for cfg.
func NewLoader(cfg config.DatasetConfig, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "dataset_loader")),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the configured source. Local paths and s3://bucket/key URIs
// are supported.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	source := strings.TrimSpace(l.cfg.Source)
	format := Format(l.cfg.Format)

	l.logger.InfoContext(ctx, "Loading dataset",
		slog.String("source", source),
		slog.String("format", string(format)))

	var (
		ds  *Dataset
		err error
	)
	switch {
	case strings.HasPrefix(source, s3Scheme):
		client := l.s3Client
		if client == nil {
			client, err = NewS3Client(ctx, l.cfg.S3)
			if err != nil {
				return nil, err
			}
		}
		ds, err = LoadS3(ctx, client, source, format, l.cfg.Sheet)
	case strings.Contains(source, "://"):
		err = fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
	default:
		ds, err = LoadFile(source, format, l.cfg.Sheet)
	}
	if err != nil {
		l.logger.ErrorContext(ctx, "Dataset load failed",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, err
	}

	lo, hi := ds.PayloadBounds()
	l.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("source", source),
		slog.Int("rows", ds.Len()),
		slog.Int("sites", len(ds.DistinctSites())),
		slog.Float64("min_payload_kg", lo),
		slog.Float64("max_payload_kg", hi))

	return ds, nil
}

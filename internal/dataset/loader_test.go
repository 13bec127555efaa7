package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"launchdash/internal/config"
	"launchdash/pkg/contracts/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		check   func(*testing.T, *Dataset)
	}{
		{
			name: "unnamed index column and optional columns",
			input: ",Flight Number,Launch Site,class,Payload Mass (kg),Booster Version,Booster Version Category\n" +
				"0,1,CCAFS LC-40,0,0.0,F9 v1.0  B0003,v1.0\n" +
				"1,20,KSC LC-39A,1,2490.0,F9 FT B1031.1,FT\n",
			check: func(t *testing.T, ds *Dataset) {
				require.Equal(t, 2, ds.Len())
				assert.Equal(t, domain.Launch{
					FlightNumber:    20,
					Site:            "KSC LC-39A",
					Outcome:         1,
					PayloadMassKG:   2490,
					BoosterVersion:  "F9 FT B1031.1",
					BoosterCategory: "FT",
				}, ds.Row(1))
			},
		},
		{
			name:  "headers match case-insensitively with a BOM and reordered columns",
			input: "\ufeffPAYLOAD MASS (KG),booster  version category,CLASS,launch site\n4600,B5,1.0,CCAFS SLC-40\n",
			check: func(t *testing.T, ds *Dataset) {
				require.Equal(t, 1, ds.Len())
				row := ds.Row(0)
				assert.Equal(t, "CCAFS SLC-40", row.Site)
				assert.Equal(t, 1, row.Outcome)
				assert.Equal(t, 4600.0, row.PayloadMassKG)
				assert.Equal(t, "B5", row.BoosterCategory)
				assert.Zero(t, row.FlightNumber)
			},
		},
		{
			name:  "blank lines are skipped",
			input: "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,1,500,v1\n,,,\nB,0,600,v2\n",
			check: func(t *testing.T, ds *Dataset) {
				assert.Equal(t, []string{"A", "B"}, ds.Sites())
			},
		},
		{
			name:    "missing required column",
			input:   "Launch Site,class,Booster Version Category\nA,1,v1\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "outcome outside 0 and 1",
			input:   "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,2,500,v1\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "non numeric payload",
			input:   "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,1,heavy,v1\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "negative payload",
			input:   "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,1,-5,v1\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "NaN payload",
			input:   "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,1,NaN,v1\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "header only",
			input:   "Launch Site,class,Payload Mass (kg),Booster Version Category\n",
			wantErr: ErrEmptyDataset,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyDataset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ReadCSV(strings.NewReader(tt.input), "test.csv")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.check(t, ds)
		})
	}
}

func TestReadCSV_RowErrorNamesLineAndColumn(t *testing.T) {
	input := "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,1,500,v1\nB,1,-1,v2\n"

	_, err := ReadCSV(strings.NewReader(input), "test.csv")

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Line)
	assert.Equal(t, ColumnPayloadMass, rowErr.Column)
	assert.Contains(t, err.Error(), `line 3, column "Payload Mass (kg)"`)
}

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadXLSX(t *testing.T) {
	rows := [][]interface{}{
		{"Launch Site", "class", "Payload Mass (kg)", "Booster Version Category"},
		{"A", 1, 500, "v1"},
		{"B", 0, 2500.5, "v2"},
	}

	t.Run("first sheet", func(t *testing.T) {
		ds, err := ReadXLSX(writeWorkbook(t, "Sheet1", rows), "launches.xlsx", "")
		require.NoError(t, err)
		require.Equal(t, 2, ds.Len())
		assert.Equal(t, 2500.5, ds.Row(1).PayloadMassKG)
		assert.Equal(t, 0, ds.Row(1).Outcome)
	})

	t.Run("named sheet", func(t *testing.T) {
		ds, err := ReadXLSX(writeWorkbook(t, "Launches", rows), "launches.xlsx", "Launches")
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, ds.Sites())
	})

	t.Run("missing sheet", func(t *testing.T) {
		_, err := ReadXLSX(writeWorkbook(t, "Sheet1", rows), "launches.xlsx", "Nope")
		assert.Error(t, err)
	})
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format  Format
		name    string
		want    Format
		wantErr bool
	}{
		{FormatAuto, "data.csv", FormatCSV, false},
		{FormatAuto, "data.XLSX", FormatXLSX, false},
		{"", "s3://b/data.xlsm", FormatXLSX, false},
		{FormatCSV, "data.xlsx", FormatCSV, false},
		{"XLSX", "data", FormatXLSX, false},
		{"parquet", "data.parquet", "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.format)+"/"+tt.name, func(t *testing.T) {
			got, err := resolveFormat(tt.format, tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedSource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFile(t *testing.T) {
	ds, err := LoadFile(filepath.Join("testdata", "launches.csv"), FormatAuto, "")
	require.NoError(t, err)

	assert.Equal(t, 12, ds.Len())
	assert.Equal(t, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"}, ds.DistinctSites())
	lo, hi := ds.PayloadBounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 9600.0, hi)

	_, err = LoadFile(filepath.Join("testdata", "absent.csv"), FormatAuto, "")
	assert.Error(t, err)
}

func TestLoader_Load(t *testing.T) {
	t.Run("local file", func(t *testing.T) {
		l := NewLoader(config.DatasetConfig{Source: filepath.Join("testdata", "launches.csv"), Format: "auto"}, quietLogger())
		ds, err := l.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 12, ds.Len())
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		l := NewLoader(config.DatasetConfig{Source: "https://example.com/data.csv"}, quietLogger())
		_, err := l.Load(context.Background())
		assert.ErrorIs(t, err, ErrUnsupportedSource)
	})

	t.Run("s3 source uses injected client", func(t *testing.T) {
		getter := &fakeGetter{objects: map[string]string{
			"launch-data/spacex.csv": "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,1,500,v1\n",
		}}
		l := NewLoader(config.DatasetConfig{Source: "s3://launch-data/spacex.csv"}, quietLogger(), WithS3Client(getter))
		ds, err := l.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "s3://launch-data/spacex.csv", ds.Source())
		assert.Equal(t, 1, ds.Len())
	})
}

package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lavish/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var utcOpts = Options{Location: time.UTC}

func sampleRecords() []core.Record {
	return []core.Record{
		{ID: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC).UnixMilli(), Description: "Salary", Amount: 2000, Type: core.Income},
		{ID: time.Date(2024, 12, 25, 8, 30, 0, 0, time.UTC).UnixMilli(), Description: `Gift "big", wrapped`, Amount: 4.5, Type: core.Expense},
	}
}

func TestCSVExport(t *testing.T) {
	data, err := Export(sampleRecords(), CSVEncoder{}, utcOpts)
	require.NoError(t, err)

	want := "Date,Description,Amount,Type\n" +
		"3/5/2024,\"Salary\",2000,income\n" +
		"12/25/2024,\"Gift \"\"big\"\", wrapped\",4.5,expense\n"
	assert.Equal(t, want, string(data))
}

func TestCSVExportParsesBack(t *testing.T) {
	data, err := Export(sampleRecords(), CSVEncoder{}, utcOpts)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"12/25/2024", `Gift "big", wrapped`, "4.5", "expense"}, rows[2])
}

func TestCustomDateLayout(t *testing.T) {
	data, err := Export(sampleRecords()[:1], CSVEncoder{}, Options{DateLayout: "2006-01-02", Location: time.UTC})
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-03-05,")
}

func TestEmptyLedger(t *testing.T) {
	for _, enc := range []Encoder{CSVEncoder{}, JSONEncoder{}, YAMLEncoder{}} {
		_, err := Export(nil, enc, utcOpts)
		assert.ErrorIs(t, err, ErrNothingToExport)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	err := ExportFile(nil, CSVEncoder{}, utcOpts, path)
	assert.ErrorIs(t, err, ErrNothingToExport)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestJSONAndYAMLCarrySameRows(t *testing.T) {
	want := Rows(sampleRecords(), utcOpts)

	data, err := Export(sampleRecords(), JSONEncoder{}, utcOpts)
	require.NoError(t, err)
	var fromJSON []Row
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, want, fromJSON)

	data, err = Export(sampleRecords(), YAMLEncoder{}, utcOpts)
	require.NoError(t, err)
	var fromYAML []Row
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, want, fromYAML)
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		file   string
	}{
		{"", "finance_tracker.csv"},
		{"CSV", "finance_tracker.csv"},
		{"json", "finance_tracker.json"},
		{"yml", "finance_tracker.yaml"},
	}
	for _, tt := range tests {
		enc, err := ForFormat(tt.format)
		require.NoError(t, err, tt.format)
		assert.Equal(t, tt.file, Filename(enc))
	}

	_, err := ForFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename(CSVEncoder{}))
	require.NoError(t, ExportFile(sampleRecords(), CSVEncoder{}, utcOpts, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,Description,Amount,Type\n"))
}

package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()
	e := New(filepath.Join(t.TempDir(), "exports"))
	e.now = func() time.Time {
		return time.Date(2025, 7, 14, 9, 30, 5, 0, time.UTC)
	}
	return e
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteRecords(t *testing.T) {
	e := newTestExporter(t)

	rows := []map[string]any{
		{"instituteName": "Rajbari Govt. High School", "eiinNo": float64(108070)},
		{"instituteName": "Goalanda Pilot School", "mobile": nil, "isGovt": true},
	}

	filename, err := e.WriteRecords("institutes", rows)
	require.NoError(t, err)
	assert.Equal(t, "institutes_20250714_093005.csv", filename)

	records := readCSV(t, filepath.Join(e.Dir(), filename))
	assert.Equal(t, [][]string{
		{"eiinNo", "instituteName", "isGovt", "mobile"},
		{"108070", "Rajbari Govt. High School", "", ""},
		{"", "Goalanda Pilot School", "True", ""},
	}, records)
}

func TestWriteTable_ColumnOrderAndNesting(t *testing.T) {
	e := newTestExporter(t)

	columns := []string{"Name", "Name (BN)", "Training Info"}
	rows := []map[string]any{
		{
			"Name":          "Ayesha Rahman",
			"Name (BN)":     "আয়েশা রহমান",
			"Training Info": []any{map[string]any{"title": "ICT"}},
		},
	}

	filename, err := e.WriteTable("teachers_108070", columns, rows)
	require.NoError(t, err)

	records := readCSV(t, filepath.Join(e.Dir(), filename))
	require.Len(t, records, 2)
	assert.Equal(t, columns, records[0])
	assert.Equal(t, "আয়েশা রহমান", records[1][1])
	assert.JSONEq(t, `[{"title":"ICT"}]`, records[1][2])
}

func TestWrite_NoRows(t *testing.T) {
	e := newTestExporter(t)

	_, err := e.WriteRecords("institutes", nil)
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = e.WriteTable("employees_1", []string{"Name"}, []map[string]any{})
	assert.ErrorIs(t, err, ErrNoRows)

	_, statErr := os.Stat(e.Dir())
	assert.True(t, os.IsNotExist(statErr), "no directory should be created without rows")
}

func TestNew_DefaultDir(t *testing.T) {
	assert.Equal(t, ".", New("").Dir())
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		value    any
		expected string
	}{
		{nil, ""},
		{"N/A", "N/A"},
		{false, "False"},
		{float64(2), "2"},
		{1.5, "1.5"},
		{7, "7"},
		{map[string]any{"a": 1}, `{"a":1}`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatCell(tt.value))
	}
}

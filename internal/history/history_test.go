package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONPairs(t *testing.T) {
	raw := []byte(`[["Oct 14, 2024", "30.12"], ["Oct 1, 2024", "29.85"], ["Sep 1, 2024", 28.4]]`)

	samples, err := ParseJSON(raw)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, time.Date(2024, time.October, 14, 0, 0, 0, 0, time.UTC), samples[0].Date)
	assert.Equal(t, 30.12, samples[0].Value)
	assert.Equal(t, time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), samples[2].Date)
	assert.Equal(t, 28.4, samples[2].Value)
}

func TestParseJSONObjects(t *testing.T) {
	raw := []byte(`[{"date": "2024-01-01", "value": 24.5}, {"date": "2024-02-01T00:00:00Z", "value": "25"}]`)

	samples, err := ParseJSON(raw)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 24.5, samples[0].Value)
	assert.Equal(t, time.February, samples[1].Date.Month())
}

func TestParseJSONErrors(t *testing.T) {
	cases := map[string]string{
		"not a list":    `{"date": "2024-01-01"}`,
		"short pair":    `[["Jan 1, 2024"]]`,
		"bad date":      `[["yesterday", "1.0"]]`,
		"bad value":     `[["Jan 1, 2024", "n/a"]]`,
		"missing value": `[{"date": "2024-01-01"}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestParseCSV(t *testing.T) {
	in := "date,value\n2024-01-01,24.5\nFeb 1, 2024,25.0\n"

	_, err := ParseCSV(strings.NewReader(in))
	require.Error(t, err, "unquoted comma in date should break the record")

	in = "Date, PE\n2024-01-01, 24.5\n\"Feb 1, 2024\", 25.0\n"
	samples, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 25.0, samples[1].Value)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), samples[1].Date)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "pe_ratio_hist.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[["Jan 1, 2024", "24.5"]]`), 0o644))
	samples, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Len(t, samples, 1)

	csvPath := filepath.Join(dir, "pe.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("date,value\n2024-01-01,24.5\n2024-02-01,25\n"), 0o644))
	samples, err = Load(csvPath)
	require.NoError(t, err)
	assert.Len(t, samples, 2)

	_, err = Load(filepath.Join(dir, "pe.xlsx"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

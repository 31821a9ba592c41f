package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/scanner"
)

var testPoints = []scanner.Point{
	{
		Date: "jan. de 2021",
		Metrics: []scanner.Metric{
			{Label: "Actual price", Value: "1,42"},
			{Label: "Trend", Value: "+0,8%"},
		},
	},
	{
		Date: "fev. de 2021",
		Metrics: []scanner.Metric{
			{Label: "Actual price", Value: "1,47"},
		},
	},
}

func TestScanHeaders(t *testing.T) {
	headers := ScanHeaders(testPoints)
	assert.Equal(t, []string{"Date", "Actual price", "Trend"}, headers)
}

func TestScanHeadersEmpty(t *testing.T) {
	assert.Equal(t, []string{"Date"}, ScanHeaders(nil))
}

func TestWriteScanCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "pp.csv")
	require.NoError(t, WriteScanCSV(path, testPoints))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "CSV must start with a UTF-8 BOM")

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(content, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Actual price,Trend", lines[0])
	assert.Equal(t, `jan. de 2021,"1,42","+0,8%"`, lines[1])
	// Missing metric columns stay empty.
	assert.True(t, strings.HasSuffix(lines[2], ","), "row without Trend must end in an empty cell")
}

func TestWriteScanCSVOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pp.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is much longer than the new one\n"), 0o644))

	require.NoError(t, WriteScanCSV(path, testPoints[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func TestWriteScanJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pp.json")
	require.NoError(t, WriteScanJSON(path, testPoints))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "jan. de 2021", rows[0]["date"])
	assert.Equal(t, "1,42", rows[0]["Actual price"])
	assert.Equal(t, "+0,8%", rows[0]["Trend"])
	_, hasTrend := rows[1]["Trend"]
	assert.False(t, hasTrend)
}

func TestWriteScanJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, WriteScanJSON(path, nil))

	var rows []map[string]string
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &rows))
	assert.Empty(t, rows)
}

func TestWriteCSVPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.csv")
	err := WriteCSV(path, WriteOptions{
		Headers: []string{"Date", "Product", "Value"},
		Records: [][]string{{"2021-01-04", "PP", "1.42"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Product,Value\n2021-01-04,PP,1.42\n", string(data))
}

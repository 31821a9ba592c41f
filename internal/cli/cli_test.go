package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/scanner"
)

func TestNewRootCmdRegistersStages(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"scan", "normalize", "mra", "forecast", "run"} {
		assert.Contains(t, names, want)
	}
}

func TestWithFormatExt(t *testing.T) {
	assert.Equal(t, "data.json", withFormatExt("data.csv", "json"))
	assert.Equal(t, "data.csv", withFormatExt("data.csv", "csv"))
	assert.Equal(t, "data.csv", withFormatExt("data", "csv"))
}

func TestFilterPoints(t *testing.T) {
	points := []scanner.Point{
		{Date: "jan. de 2021"},
		{Date: "mar. de 2021"},
		{Date: "mai. de 2021"},
	}

	out, err := filterPoints(points, "2021-02-01", "2021-04-01")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "mar. de 2021", out[0].Date)
}

func TestFilterPointsKeepsUnparseableLabels(t *testing.T) {
	points := []scanner.Point{
		{Date: "jan. de 2021"},
		{Date: "not a date"},
	}

	out, err := filterPoints(points, "2021-06-01", "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "not a date", out[0].Date)
}

func TestFilterPointsNoBoundsPassThrough(t *testing.T) {
	points := []scanner.Point{{Date: "a"}, {Date: "b"}}
	out, err := filterPoints(points, "", "")
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestFilterPointsRejectsBadBound(t *testing.T) {
	_, err := filterPoints(nil, "2021/01/01", "")
	assert.Error(t, err)
}

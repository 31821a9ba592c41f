package wavelet

import (
	"context"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/normalize"
)

func monthlySignal(n int) ([]time.Time, []float64) {
	times := make([]time.Time, n)
	values := make([]float64, n)
	start := time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		times[i] = start.AddDate(0, i, 0)
		values[i] = 1.2 + 0.3*math.Sin(float64(i)/4) + 0.02*float64(i)
	}
	return times, values
}

func TestWritePlot(t *testing.T) {
	times, values := monthlySignal(48)
	res, err := MRA(values, 0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "plots", "pp_mra.png")
	require.NoError(t, WritePlot(path, "PP", times, values, res))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, panelWidth, img.Bounds().Dx())
	// One panel for the signal, one for smooth, one per band.
	assert.Equal(t, panelHeight*(2+res.Levels), img.Bounds().Dy())
}

func TestWritePlotRejectsMismatch(t *testing.T) {
	times, values := monthlySignal(48)
	res, err := MRA(values, 0)
	require.NoError(t, err)

	err = WritePlot(filepath.Join(t.TempDir(), "x.png"), "PP", times[:10], values, res)
	assert.Error(t, err)
}

func TestGenerateAll(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	times, values := monthlySignal(36)
	var records []normalize.Record
	for i := range times {
		records = append(records, normalize.Record{Date: times[i], Product: "PP natur", Value: values[i]})
	}
	require.NoError(t, normalize.WriteNormalized(
		filepath.Join(inDir, "prices_normalized.csv"), records))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	count, err := GenerateAll(context.Background(), inDir, outDir, 0, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "prices_PP natur_mra")

	// A second run skips the existing plot.
	count, err = GenerateAll(context.Background(), inDir, outDir, 0, logger)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

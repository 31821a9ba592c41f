package forecast

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/config"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/normalize"
)

func defaultOptions() Options {
	return Options{Alpha: 0.5, Beta: 0.05, Gamma: 0.3, SeasonLength: 12}
}

func TestFitRejectsShortInput(t *testing.T) {
	_, err := Fit([]float64{1}, defaultOptions())
	assert.Error(t, err)

	_, err = Fit(nil, defaultOptions())
	assert.Error(t, err)
}

func TestFitRejectsBadAlpha(t *testing.T) {
	opts := defaultOptions()
	opts.Alpha = 0
	_, err := Fit([]float64{1, 2, 3}, opts)
	assert.Error(t, err)
}

func TestShortSeriesFallsBackToTrendOnly(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	model, err := Fit(values, defaultOptions())
	require.NoError(t, err)
	assert.False(t, model.Seasonal())
}

func TestTrendOnlyTracksLinearSeries(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 1.2 + 0.05*float64(i)
	}
	model, err := Fit(values, defaultOptions())
	require.NoError(t, err)

	got := model.Forecast(6)
	require.Len(t, got, 6)
	for h, v := range got {
		want := 1.2 + 0.05*float64(len(values)+h)
		assert.InDelta(t, want, v, 1e-9, "step %d", h+1)
	}
}

func TestConstantSeriesForecastsConstant(t *testing.T) {
	values := make([]float64, 36)
	for i := range values {
		values[i] = 7.5
	}
	model, err := Fit(values, defaultOptions())
	require.NoError(t, err)
	assert.True(t, model.Seasonal())

	for _, v := range model.Forecast(12) {
		assert.InDelta(t, 7.5, v, 1e-9)
	}
}

func TestSeasonalSeriesForecastsPattern(t *testing.T) {
	// Zero-mean 12-sample pattern on a flat base, three full seasons.
	pattern := []float64{0.5, 0.3, 0.1, -0.1, -0.3, -0.5, -0.5, -0.3, -0.1, 0.1, 0.3, 0.5}
	values := make([]float64, 36)
	for i := range values {
		values[i] = 10 + pattern[i%12]
	}

	model, err := Fit(values, defaultOptions())
	require.NoError(t, err)
	require.True(t, model.Seasonal())

	got := model.Forecast(12)
	for h, v := range got {
		want := 10 + pattern[(len(values)+h)%12]
		assert.InDelta(t, want, v, 1e-9, "step %d", h+1)
	}
}

func TestFutureTimesMonthly(t *testing.T) {
	times := []time.Time{
		time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	future := FutureTimes(times, 3)
	require.Len(t, future, 3)
	assert.Equal(t, time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC), future[0])
	assert.Equal(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), future[2])
}

func TestFutureTimesWeekly(t *testing.T) {
	start := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	times := []time.Time{start, start.AddDate(0, 0, 7), start.AddDate(0, 0, 14)}

	future := FutureTimes(times, 2)
	require.Len(t, future, 2)
	assert.Equal(t, start.AddDate(0, 0, 21), future[0])
	assert.Equal(t, start.AddDate(0, 0, 28), future[1])
}

func TestGenerateAll(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	var records []normalize.Record
	for i := 0; i < 40; i++ {
		records = append(records, normalize.Record{
			Date:    start.AddDate(0, i, 0),
			Product: "PP",
			Value:   1.2 + 0.01*float64(i) + 0.1*math.Sin(float64(i)*math.Pi/6),
		})
	}
	require.NoError(t, normalize.WriteNormalized(
		filepath.Join(inDir, "prices_normalized.csv"), records))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	count, err := GenerateAll(context.Background(), inDir, outDir, config.Default().Forecast, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = os.Stat(filepath.Join(outDir, "prices_PP_forecast.png"))
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "prices_PP_forecast.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header plus one row per horizon step.
	assert.Len(t, lines, 1+config.Default().Forecast.Horizon)
	assert.Equal(t, "Date,Product,Forecast", strings.TrimPrefix(lines[0], "\ufeff"))
}

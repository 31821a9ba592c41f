package forecast

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	apperrors "github.com/Navarropy/Polypropylene-Price-Scraper/internal/errors"
)

// FutureTimes extends the time axis by h steps using the median spacing of
// the history. Gaps near a month are stepped as calendar months so monthly
// series stay on the first of the month.
func FutureTimes(times []time.Time, h int) []time.Time {
	last := times[len(times)-1]
	step := medianGap(times)

	out := make([]time.Time, 0, h)
	monthly := step >= 27*24*time.Hour && step <= 32*24*time.Hour
	for i := 1; i <= h; i++ {
		if monthly {
			out = append(out, last.AddDate(0, i, 0))
		} else {
			out = append(out, last.Add(time.Duration(i)*step))
		}
	}
	return out
}

func medianGap(times []time.Time) time.Duration {
	if len(times) < 2 {
		return 30 * 24 * time.Hour
	}
	gaps := make([]time.Duration, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		gaps = append(gaps, times[i].Sub(times[i-1]))
	}
	sort.Slice(gaps, func(a, b int) bool { return gaps[a] < gaps[b] })
	return gaps[len(gaps)/2]
}

// WritePlot renders the history and the projection on one chart.
func WritePlot(path, title string, times []time.Time, values []float64, futureTimes []time.Time, projected []float64) error {
	if len(values) < 2 || len(projected) < 2 {
		return apperrors.New(apperrors.CodeNoData, "not enough samples to plot")
	}

	graph := chart.Chart{
		Title:      title,
		Width:      1100,
		Height:     500,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 10}},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "history",
				XValues: times,
				YValues: values,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.5},
			},
			chart.TimeSeries{
				Name:    "forecast",
				XValues: futureTimes,
				YValues: projected,
				Style: chart.Style{
					StrokeColor:     chart.ColorRed,
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{4, 3},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.Wrap(apperrors.CodeFileSystem, "failed to create plot directory", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFileSystem, "failed to create plot file", err)
	}
	defer f.Close()
	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

package wavelet

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	apperrors "github.com/Navarropy/Polypropylene-Price-Scraper/internal/errors"
)

const (
	panelWidth  = 1100
	panelHeight = 220
)

// WritePlot renders the signal plus every component of the analysis as a
// stack of panels in a single PNG.
func WritePlot(path, title string, times []time.Time, signal []float64, res *Result) error {
	if len(times) != len(signal) {
		return fmt.Errorf("times and signal differ in length: %d vs %d",
			len(times), len(signal))
	}
	if len(signal) < 2 {
		return apperrors.New(apperrors.CodeNoData, "not enough samples to plot")
	}

	panels := []image.Image{}
	add := func(name string, values []float64, color drawing.Color) error {
		img, err := renderPanel(name, times, values, color)
		if err != nil {
			return fmt.Errorf("failed to render %s panel: %w", name, err)
		}
		panels = append(panels, img)
		return nil
	}

	if err := add(title, signal, chart.ColorBlue); err != nil {
		return err
	}
	if err := add(fmt.Sprintf("smooth (level %d)", res.Levels), res.Smooth, chart.ColorGreen); err != nil {
		return err
	}
	for i, band := range res.Bands {
		if err := add(fmt.Sprintf("detail level %d", i+1), band, chart.ColorAlternateGray); err != nil {
			return err
		}
	}

	stacked := stackVertically(panels)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.Wrap(apperrors.CodeFileSystem, "failed to create plot directory", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFileSystem, "failed to create plot file", err)
	}
	defer f.Close()
	if err := png.Encode(f, stacked); err != nil {
		return apperrors.Wrap(apperrors.CodeFileSystem, "failed to encode plot", err)
	}
	return nil
}

func renderPanel(name string, times []time.Time, values []float64, color drawing.Color) (image.Image, error) {
	graph := chart.Chart{
		Title:      name,
		Width:      panelWidth,
		Height:     panelHeight,
		Background: chart.Style{Padding: chart.Box{Top: 12, Left: 14, Right: 12, Bottom: 8}},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    name,
				XValues: times,
				YValues: values,
				Style:   chart.Style{StrokeColor: color, StrokeWidth: 1.5},
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// stackVertically composes the panels top to bottom on a white canvas.
func stackVertically(panels []image.Image) image.Image {
	width, height := 0, 0
	for _, p := range panels {
		b := p.Bounds()
		if b.Dx() > width {
			width = b.Dx()
		}
		height += b.Dy()
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	y := 0
	for _, p := range panels {
		b := p.Bounds()
		dst := image.Rect(0, y, b.Dx(), y+b.Dy())
		draw.Draw(out, dst, p, b.Min, draw.Src)
		y += b.Dy()
	}
	return out
}

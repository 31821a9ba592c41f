// Package forecast fits an exponential smoothing model to price series and
// projects them forward.
package forecast

import (
	"fmt"
)

// Options are the smoothing parameters. SeasonLength is in samples; the
// seasonal component is dropped when the series is shorter than two full
// seasons.
type Options struct {
	Alpha        float64
	Beta         float64
	Gamma        float64
	SeasonLength int
}

// Model is a fitted Holt-Winters additive model. When the input was too
// short for seasonality it degrades to plain Holt smoothing.
type Model struct {
	level    float64
	trend    float64
	seasonal []float64
	n        int
	opts     Options
}

// Seasonal reports whether the fitted model carries a seasonal component.
func (m *Model) Seasonal() bool { return len(m.seasonal) > 0 }

// Fit runs the smoothing recursions over the series.
func Fit(values []float64, opts Options) (*Model, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("need at least 2 observations, got %d", len(values))
	}
	if opts.Alpha <= 0 || opts.Alpha > 1 {
		return nil, fmt.Errorf("alpha must be in (0, 1], got %g", opts.Alpha)
	}

	m := &Model{n: len(values), opts: opts}
	if opts.SeasonLength > 1 && len(values) >= 2*opts.SeasonLength {
		m.fitSeasonal(values)
	} else {
		m.fitTrendOnly(values)
	}
	return m, nil
}

func (m *Model) fitTrendOnly(values []float64) {
	m.level = values[0]
	m.trend = values[1] - values[0]
	for _, x := range values[1:] {
		prevLevel := m.level
		m.level = m.opts.Alpha*x + (1-m.opts.Alpha)*(m.level+m.trend)
		m.trend = m.opts.Beta*(m.level-prevLevel) + (1-m.opts.Beta)*m.trend
	}
}

func (m *Model) fitSeasonal(values []float64) {
	season := m.opts.SeasonLength

	var first, second float64
	for i := 0; i < season; i++ {
		first += values[i]
		second += values[season+i]
	}
	first /= float64(season)
	second /= float64(season)

	m.level = first
	m.trend = (second - first) / float64(season)
	m.seasonal = make([]float64, season)
	for i := 0; i < season; i++ {
		m.seasonal[i] = values[i] - first
	}

	for t := season; t < len(values); t++ {
		x := values[t]
		phase := t % season
		prevLevel := m.level
		m.level = m.opts.Alpha*(x-m.seasonal[phase]) + (1-m.opts.Alpha)*(m.level+m.trend)
		m.trend = m.opts.Beta*(m.level-prevLevel) + (1-m.opts.Beta)*m.trend
		m.seasonal[phase] = m.opts.Gamma*(x-m.level) + (1-m.opts.Gamma)*m.seasonal[phase]
	}
}

// Forecast projects the model h steps past the end of the fitted series.
func (m *Model) Forecast(h int) []float64 {
	out := make([]float64, 0, h)
	for step := 1; step <= h; step++ {
		v := m.level + float64(step)*m.trend
		if m.Seasonal() {
			v += m.seasonal[(m.n+step-1)%m.opts.SeasonLength]
		}
		out = append(out, v)
	}
	return out
}

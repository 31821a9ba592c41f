// Package series holds ordered time/value pairs shared by the analysis
// stages and the small transforms they need before modelling.
package series

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/normalize"
)

// Series is a time-ordered sequence of observations. Times and Values are
// parallel slices of equal length.
type Series struct {
	Times  []time.Time
	Values []float64
}

// New builds a Series from parallel slices, sorting by time. The inputs are
// copied.
func New(times []time.Time, values []float64) (Series, error) {
	if len(times) != len(values) {
		return Series{}, fmt.Errorf("times and values differ in length: %d vs %d",
			len(times), len(values))
	}
	idx := make([]int, len(times))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return times[idx[a]].Before(times[idx[b]]) })

	s := Series{
		Times:  make([]time.Time, len(times)),
		Values: make([]float64, len(values)),
	}
	for i, j := range idx {
		s.Times[i] = times[j]
		s.Values[i] = values[j]
	}
	return s, nil
}

// FromRecords converts normalized records of a single product into a Series.
func FromRecords(records []normalize.Record) (Series, error) {
	times := make([]time.Time, len(records))
	values := make([]float64, len(records))
	for i, r := range records {
		times[i] = r.Date
		values[i] = r.Value
	}
	return New(times, values)
}

func (s Series) Len() int { return len(s.Values) }

// Min returns the smallest finite value, or NaN for an empty series.
func (s Series) Min() float64 {
	min := math.NaN()
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest finite value, or NaN for an empty series.
func (s Series) Max() float64 {
	max := math.NaN()
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

// Normalized rescales the values to [0, 1]. A constant series maps to all
// zeros.
func (s Series) Normalized() Series {
	out := Series{
		Times:  append([]time.Time(nil), s.Times...),
		Values: make([]float64, len(s.Values)),
	}
	min, max := s.Min(), s.Max()
	span := max - min
	if span == 0 || math.IsNaN(span) {
		return out
	}
	for i, v := range s.Values {
		out.Values[i] = (v - min) / span
	}
	return out
}

// ForwardFilled replaces NaN values with the last preceding finite value.
// Leading NaNs are dropped together with their timestamps.
func (s Series) ForwardFilled() Series {
	var out Series
	last := math.NaN()
	for i, v := range s.Values {
		if math.IsNaN(v) {
			if math.IsNaN(last) {
				continue
			}
			v = last
		}
		last = v
		out.Times = append(out.Times, s.Times[i])
		out.Values = append(out.Values, v)
	}
	return out
}

// Window keeps observations with from <= t <= to. Zero bounds are open.
func (s Series) Window(from, to time.Time) Series {
	var out Series
	for i, t := range s.Times {
		if !from.IsZero() && t.Before(from) {
			continue
		}
		if !to.IsZero() && t.After(to) {
			continue
		}
		out.Times = append(out.Times, t)
		out.Values = append(out.Values, s.Values[i])
	}
	return out
}

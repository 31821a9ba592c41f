// Package scanner implements the adaptive tooltip sweep that reconstructs a
// price time series from a chart.
//
// The sweep walks a cursor position left to right across the chart's bounding
// box, hovering at each sampled x-position and reading the tooltip the chart
// renders for the nearest data point. The step size adapts: a successful
// tooltip read resets it to the minimum so adjacent points are not skipped,
// while misses grow it multiplicatively up to a ceiling so wide empty regions
// finish in bounded time.
//
// The state transition is a pure function (Advance) over an explicit Session
// value, so the algorithm is testable without a browser. The browser binding
// is abstracted behind the Driver interface and lives in internal/browser.
package scanner

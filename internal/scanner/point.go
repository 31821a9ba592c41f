package scanner

// Metric is one label/value pair read from a tooltip. Values stay raw
// strings; the scanner imposes no numeric parsing.
type Metric struct {
	Label string
	Value string
}

// Point is an immutable data point extracted from a tooltip: the date label
// from the first tooltip line plus the metric fields from the remaining
// lines. X records the scan position that produced the hit.
type Point struct {
	Date    string
	Metrics []Metric
	X       float64
}

// Metric returns the value for label, if the point carries it.
func (p Point) Metric(label string) (string, bool) {
	for _, m := range p.Metrics {
		if m.Label == label {
			return m.Value, true
		}
	}
	return "", false
}

// Rect is a pixel bounding box, read once at session start and treated as
// immutable for the session.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

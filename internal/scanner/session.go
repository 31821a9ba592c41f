package scanner

import (
	apperrors "github.com/Navarropy/Polypropylene-Price-Scraper/internal/errors"
)

// Settings are the sweep parameters. They are browser-free so the algorithm
// can run against any Driver.
type Settings struct {
	// EdgeMargin is the number of pixel-units skipped at both chart edges,
	// where axes and padding live.
	EdgeMargin float64
	// ScanRow is the fraction of the chart height at which the cursor rides.
	ScanRow float64
	// MinStep is the step after a hit; the sweep never moves less than this.
	MinStep float64
	// MaxStep caps the step growth across empty regions.
	MaxStep float64
	// StepGrowth is the multiplicative factor applied on a miss.
	StepGrowth float64
}

// Session is the transient state of one sweep: cursor position, current step
// and the accepted points so far. It lives only for the duration of one scan.
type Session struct {
	Box    Rect
	X      float64
	StartX float64
	EndX   float64
	ScanY  float64
	Step   float64

	// LastDate is the date label of the immediately preceding accepted
	// point, used for duplicate suppression across consecutive small steps.
	LastDate string
	Points   []Point

	Samples       int
	Misses        int
	ParseFailures int
}

// NewSession positions the cursor at the left scan bound with the minimum
// step.
func NewSession(box Rect, st Settings) Session {
	return Session{
		Box:    box,
		X:      st.EdgeMargin,
		StartX: st.EdgeMargin,
		EndX:   box.Width - st.EdgeMargin,
		ScanY:  box.Height * st.ScanRow,
		Step:   st.MinStep,
	}
}

// Done reports whether the cursor has passed the right scan bound.
func (s Session) Done() bool { return s.X > s.EndX }

// PageX is the current cursor position in document coordinates.
func (s Session) PageX() float64 { return s.Box.X + s.X }

// PageY is the fixed scan row in document coordinates.
func (s Session) PageY() float64 { return s.Box.Y + s.ScanY }

// Progress is the completed fraction of the sweep, in [0, 1].
func (s Session) Progress() float64 {
	total := s.EndX - s.StartX
	if total <= 0 {
		return 1
	}
	p := (s.X - s.StartX) / total
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// Sample is the observed result of probing one x-position.
type Sample struct {
	Found bool
	Point Point
	// Err carries the sample-local failure when Found is false and the miss
	// was not just an empty region.
	Err error
}

// NextStep is the adaptive step policy. A successful tooltip read resets to
// the minimum step so nearby points are not skipped; a miss grows the step
// multiplicatively, clamped to the configured ceiling.
func NextStep(current float64, found bool, st Settings) float64 {
	if found {
		return st.MinStep
	}
	next := current * st.StepGrowth
	if next > st.MaxStep {
		next = st.MaxStep
	}
	if next < st.MinStep {
		next = st.MinStep
	}
	return next
}

// Advance folds one sample into the session and returns the next session
// state plus the emitted point, if the sample produced one. A point whose
// date label equals the immediately preceding accepted label is discarded:
// consecutive small steps re-read the same tooltip.
func Advance(s Session, st Settings, sample Sample) (Session, *Point) {
	s.Samples++

	var emitted *Point
	if sample.Found {
		p := sample.Point
		p.X = s.X
		if p.Date != s.LastDate {
			s.Points = append(s.Points, p)
			s.LastDate = p.Date
			emitted = &s.Points[len(s.Points)-1]
		}
	} else {
		s.Misses++
		if apperrors.CodeOf(sample.Err) == apperrors.CodeTooltipParse {
			s.ParseFailures++
		}
	}

	s.Step = NextStep(s.Step, sample.Found, st)
	s.X += s.Step
	return s, emitted
}

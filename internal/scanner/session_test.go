package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Navarropy/Polypropylene-Price-Scraper/internal/errors"
)

var testSettings = Settings{
	EdgeMargin: 50,
	ScanRow:    0.3,
	MinStep:    1,
	MaxStep:    50,
	StepGrowth: 2,
}

func TestNextStepResetsOnHit(t *testing.T) {
	for _, cur := range []float64{1, 3, 17, 50} {
		assert.Equal(t, testSettings.MinStep, NextStep(cur, true, testSettings),
			"a hit must reset the step regardless of the step that produced it (was %v)", cur)
	}
}

func TestNextStepGrowsOnMissAndClamps(t *testing.T) {
	step := testSettings.MinStep
	var steps []float64
	for i := 0; i < 12; i++ {
		step = NextStep(step, false, testSettings)
		steps = append(steps, step)
	}

	// Multiplicative growth until the ceiling, then flat.
	assert.Equal(t, []float64{2, 4, 8, 16, 32, 50, 50, 50, 50, 50, 50, 50}, steps)

	for _, s := range steps {
		assert.GreaterOrEqual(t, s, testSettings.MinStep)
		assert.LessOrEqual(t, s, testSettings.MaxStep)
	}
}

func TestNextStepStaysInBounds(t *testing.T) {
	// Property: for any step sequence, the step stays within [min, max].
	step := testSettings.MinStep
	pattern := []bool{false, false, true, false, true, true, false, false, false, false, false, true}
	for _, found := range pattern {
		step = NextStep(step, found, testSettings)
		require.GreaterOrEqual(t, step, testSettings.MinStep)
		require.LessOrEqual(t, step, testSettings.MaxStep)
	}
}

func TestNewSessionBounds(t *testing.T) {
	box := Rect{X: 10, Y: 20, Width: 700, Height: 400}
	sess := NewSession(box, testSettings)

	assert.Equal(t, 50.0, sess.StartX)
	assert.Equal(t, 650.0, sess.EndX)
	assert.Equal(t, 120.0, sess.ScanY)
	assert.Equal(t, 1.0, sess.Step)
	assert.False(t, sess.Done())

	assert.Equal(t, 60.0, sess.PageX())
	assert.Equal(t, 140.0, sess.PageY())
}

func TestAdvanceDedupByLabel(t *testing.T) {
	sess := NewSession(Rect{Width: 700}, testSettings)

	hit := func(date string) Sample {
		return Sample{Found: true, Point: Point{Date: date}}
	}

	// Two adjacent positions re-reading the same tooltip collapse to one
	// point; a different label one pixel later is a distinct point.
	var emitted *Point
	sess, emitted = Advance(sess, testSettings, hit("Mar 2021"))
	require.NotNil(t, emitted)
	sess, emitted = Advance(sess, testSettings, hit("Mar 2021"))
	assert.Nil(t, emitted, "same label as the preceding accepted point must be discarded")
	sess, emitted = Advance(sess, testSettings, hit("Apr 2021"))
	require.NotNil(t, emitted)

	require.Len(t, sess.Points, 2)
	assert.Equal(t, "Mar 2021", sess.Points[0].Date)
	assert.Equal(t, "Apr 2021", sess.Points[1].Date)

	// Dedup only looks at the immediately preceding point: an earlier label
	// showing up again later is accepted.
	sess, emitted = Advance(sess, testSettings, hit("Mar 2021"))
	require.NotNil(t, emitted)
	require.Len(t, sess.Points, 3)
}

func TestAdvanceResetsStepEvenWhenDeduped(t *testing.T) {
	sess := NewSession(Rect{Width: 700}, testSettings)
	sess.Step = 32

	// A successful tooltip read resets the step even when the point is
	// discarded as a duplicate.
	sess.LastDate = "Mar 2021"
	sess, emitted := Advance(sess, testSettings, Sample{Found: true, Point: Point{Date: "Mar 2021"}})
	assert.Nil(t, emitted)
	assert.Equal(t, testSettings.MinStep, sess.Step)
}

func TestAdvanceRecordsScanPosition(t *testing.T) {
	sess := NewSession(Rect{Width: 700}, testSettings)
	sess.X = 123

	sess, emitted := Advance(sess, testSettings, Sample{Found: true, Point: Point{Date: "Jun 2021"}})
	require.NotNil(t, emitted)
	assert.Equal(t, 123.0, emitted.X)
	assert.Equal(t, 124.0, sess.X, "cursor advances by the reset minimum step")
}

func TestAdvanceCountsMisses(t *testing.T) {
	sess := NewSession(Rect{Width: 700}, testSettings)

	sess, _ = Advance(sess, testSettings, Sample{Err: apperrors.ErrTooltipAbsent})
	sess, _ = Advance(sess, testSettings, Sample{Err: apperrors.New(apperrors.CodeTooltipParse, "bad html")})
	sess, _ = Advance(sess, testSettings, Sample{Found: true, Point: Point{Date: "Jul 2021"}})

	assert.Equal(t, 3, sess.Samples)
	assert.Equal(t, 2, sess.Misses)
	assert.Equal(t, 1, sess.ParseFailures)
}

func TestProgress(t *testing.T) {
	sess := NewSession(Rect{Width: 700}, testSettings)
	assert.Equal(t, 0.0, sess.Progress())

	sess.X = 350
	assert.InDelta(t, 0.5, sess.Progress(), 0.01)

	sess.X = 1000
	assert.Equal(t, 1.0, sess.Progress())
}

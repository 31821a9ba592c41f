package scanner

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	apperrors "github.com/Navarropy/Polypropylene-Price-Scraper/internal/errors"
)

// Driver is the browser capability the sweep needs. The chromedp binding in
// internal/browser implements it; tests substitute a fake.
type Driver interface {
	// Hover simulates pointer movement to (x, y) in document coordinates.
	Hover(ctx context.Context, x, y float64) error
	// TooltipHTML returns the HTML of the visible tooltip. ok is false when
	// no tooltip appeared within the per-sample timeout.
	TooltipHTML(ctx context.Context) (html string, ok bool, err error)
}

// Scanner runs the full left-to-right sweep over one chart.
type Scanner struct {
	drv           Driver
	settings      Settings
	samplesPerSec float64
	logger        *slog.Logger
}

// New creates a Scanner. samplesPerSec throttles hover sampling; zero or
// negative disables the throttle.
func New(drv Driver, settings Settings, samplesPerSec float64, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{drv: drv, settings: settings, samplesPerSec: samplesPerSec, logger: logger}
}

// Scan sweeps the chart box and returns the ordered, deduplicated sequence
// of data points. Sample-local failures are logged and skipped; the sweep
// only stops at the right bound or when ctx is cancelled.
func (sc *Scanner) Scan(ctx context.Context, box Rect) ([]Point, error) {
	limit := rate.Inf
	if sc.samplesPerSec > 0 {
		limit = rate.Limit(sc.samplesPerSec)
	}
	limiter := rate.NewLimiter(limit, 1)

	sess := NewSession(box, sc.settings)
	sc.logger.Info("scan started",
		slog.Float64("start_x", sess.StartX),
		slog.Float64("end_x", sess.EndX),
		slog.Float64("scan_y", sess.ScanY),
		slog.Float64("min_step", sc.settings.MinStep),
		slog.Float64("max_step", sc.settings.MaxStep))

	lastProgress := -1
	for !sess.Done() {
		if err := limiter.Wait(ctx); err != nil {
			return sess.Points, err
		}

		sample := sc.sampleAt(ctx, sess)
		var emitted *Point
		sess, emitted = Advance(sess, sc.settings, sample)
		if emitted != nil {
			sc.logger.Info("captured data point",
				slog.String("date", emitted.Date),
				slog.Float64("x", emitted.X),
				slog.Int("metrics", len(emitted.Metrics)))
		}

		if pct := int(sess.Progress() * 100); pct/10 != lastProgress/10 {
			lastProgress = pct
			sc.logger.Debug("scan progress",
				slog.Int("percent", pct),
				slog.Float64("x", sess.X),
				slog.Float64("step", sess.Step))
		}
	}

	sc.logger.Info("scan complete",
		slog.Int("points", len(sess.Points)),
		slog.Int("samples", sess.Samples),
		slog.Int("misses", sess.Misses),
		slog.Int("parse_failures", sess.ParseFailures))
	return sess.Points, nil
}

// sampleAt samples a single x-position: hover, wait for the tooltip, parse.
// Every failure here is sample-local; the caller advances and continues.
func (sc *Scanner) sampleAt(ctx context.Context, sess Session) Sample {
	if err := sc.drv.Hover(ctx, sess.PageX(), sess.PageY()); err != nil {
		sc.logger.Warn("hover failed",
			slog.Float64("x", sess.X),
			slog.String("error", err.Error()))
		return Sample{Err: apperrors.Wrap(apperrors.CodeTooltipAbsent, "hover", err)}
	}

	html, ok, err := sc.drv.TooltipHTML(ctx)
	if err != nil {
		sc.logger.Warn("tooltip read failed",
			slog.Float64("x", sess.X),
			slog.String("error", err.Error()))
		return Sample{Err: apperrors.Wrap(apperrors.CodeTooltipAbsent, "read tooltip", err)}
	}
	if !ok {
		return Sample{Err: apperrors.ErrTooltipAbsent}
	}

	point, err := ParseTooltip(html)
	if err != nil {
		sc.logger.Warn("tooltip parse failed",
			slog.Float64("x", sess.X),
			slog.String("error", err.Error()))
		return Sample{Err: err}
	}
	return Sample{Found: true, Point: point}
}

// Package browser binds the scan algorithm to a real Chrome session via
// chromedp. It implements scanner.Driver and owns every piece of injected
// JavaScript: locating the chart inside its embedding frame, moving the
// on-page hover marker, dispatching pointer events and reading the tooltip.
//
// The chart lives inside an analytics iframe. When the frame document is
// same-origin it is used directly, so hover coordinates and the chart
// bounding box share one coordinate space; otherwise the top document is
// used as a fallback.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	apperrors "github.com/Navarropy/Polypropylene-Price-Scraper/internal/errors"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/scanner"
)

// Options configures the browser session.
type Options struct {
	Headless        bool
	FrameSelector   string
	ChartSelector   string
	TooltipSelector string
	NavTimeout      time.Duration
	SampleTimeout   time.Duration
	ShowMarker      bool
}

// Browser is one Chrome session driving one scan.
type Browser struct {
	ctx    context.Context
	opts   Options
	logger *slog.Logger
}

// Open launches a Chrome session. The returned cleanup function must be
// called once the scan finishes or aborts; it tears the whole session down.
func Open(parent context.Context, opts Options, logger *slog.Logger) (*Browser, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)
	cleanup := func() {
		cancelCtx()
		cancelAlloc()
	}

	return &Browser{ctx: ctx, opts: opts, logger: logger}, cleanup, nil
}

// Initialize navigates to url, waits for the chart frame and the chart
// element, injects the hover marker and returns the chart's bounding box.
func (b *Browser) Initialize(url string) (scanner.Rect, error) {
	navCtx, cancel := context.WithTimeout(b.ctx, b.opts.NavTimeout)
	defer cancel()

	b.logger.Info("navigating", slog.String("url", url))
	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		return scanner.Rect{}, apperrors.Wrap(apperrors.CodeNavigation, "navigate "+url, err)
	}

	if b.opts.FrameSelector != "" {
		if err := chromedp.Run(navCtx,
			chromedp.WaitVisible(b.opts.FrameSelector, chromedp.ByQuery)); err != nil {
			return scanner.Rect{}, apperrors.Wrap(apperrors.CodeElementNotFound,
				"wait for frame "+b.opts.FrameSelector, err)
		}
	}

	var box scanner.Rect
	locate := chromedp.Poll(b.locateChartJS(), &box,
		chromedp.WithPollingInterval(250*time.Millisecond))
	if err := chromedp.Run(navCtx, locate); err != nil {
		return scanner.Rect{}, apperrors.Wrap(apperrors.CodeElementNotFound,
			"locate chart "+b.opts.ChartSelector, err)
	}
	if box.Width <= 0 || box.Height <= 0 {
		return scanner.Rect{}, apperrors.New(apperrors.CodeElementNotFound,
			fmt.Sprintf("chart %s has empty bounding box", b.opts.ChartSelector))
	}

	if b.opts.ShowMarker {
		if err := chromedp.Run(navCtx, chromedp.Evaluate(b.injectMarkerJS(), nil)); err != nil {
			// Purely cosmetic, the sweep works without it.
			b.logger.Warn("marker injection failed", slog.String("error", err.Error()))
		}
	}

	b.logger.Info("chart located",
		slog.Float64("x", box.X), slog.Float64("y", box.Y),
		slog.Float64("width", box.Width), slog.Float64("height", box.Height))
	return box, nil
}

// Hover implements scanner.Driver: it moves the marker and dispatches
// mouseover/mousemove/mouseenter at (x, y) in the scan document.
func (b *Browser) Hover(ctx context.Context, x, y float64) error {
	merged, release := mergeDone(ctx, b.ctx)
	defer release()
	hoverCtx, cancel := context.WithTimeout(merged, b.opts.SampleTimeout)
	defer cancel()

	var hit bool
	if err := chromedp.Run(hoverCtx, chromedp.Evaluate(b.hoverJS(x, y), &hit)); err != nil {
		return fmt.Errorf("hover at (%.0f, %.0f): %w", x, y, err)
	}
	if !hit {
		return fmt.Errorf("no element at (%.0f, %.0f)", x, y)
	}
	return nil
}

// TooltipHTML implements scanner.Driver: it polls for the visible tooltip
// until the per-sample timeout and returns its outer HTML.
func (b *Browser) TooltipHTML(ctx context.Context) (string, bool, error) {
	merged, release := mergeDone(ctx, b.ctx)
	defer release()
	readCtx, cancel := context.WithTimeout(merged, b.opts.SampleTimeout)
	defer cancel()

	var html string
	poll := chromedp.Poll(b.tooltipJS(), &html,
		chromedp.WithPollingInterval(50*time.Millisecond))
	if err := chromedp.Run(readCtx, poll); err != nil {
		if readCtx.Err() != nil {
			// Tooltip never appeared: an empty region, not an error.
			return "", false, nil
		}
		return "", false, err
	}
	return html, html != "", nil
}

// scanDocJS resolves the document the sweep operates in: the frame's
// contentDocument when accessible, the top document otherwise.
func (b *Browser) scanDocJS() string {
	return fmt.Sprintf(`(() => {
		let doc = document;
		const frame = document.querySelector(%q);
		if (frame) {
			try {
				if (frame.contentDocument) doc = frame.contentDocument;
			} catch (e) { /* cross-origin, keep top document */ }
		}
		return doc;
	})()`, b.opts.FrameSelector)
}

func (b *Browser) locateChartJS() string {
	return fmt.Sprintf(`(() => {
		const doc = %s;
		const chart = doc.querySelector(%q);
		if (!chart) return false;
		const r = chart.getBoundingClientRect();
		if (r.width === 0) return false;
		return {x: r.left, y: r.top, width: r.width, height: r.height};
	})()`, b.scanDocJS(), b.opts.ChartSelector)
}

func (b *Browser) injectMarkerJS() string {
	return fmt.Sprintf(`(() => {
		const doc = %s;
		if (doc.getElementById('hoverDot')) return true;
		const dot = doc.createElement('div');
		dot.id = 'hoverDot';
		dot.style = 'position: fixed; width: 8px; height: 8px; background: red;'
			+ 'border-radius: 50%%; z-index: 99999; display: none;'
			+ 'box-shadow: 0 0 5px red; pointer-events: none;';
		doc.body.appendChild(dot);
		return true;
	})()`, b.scanDocJS())
}

func (b *Browser) hoverJS(x, y float64) string {
	return fmt.Sprintf(`(() => {
		const doc = %s;
		const dot = doc.getElementById('hoverDot');
		if (dot) {
			dot.style.left = (%[2]f - 4) + 'px';
			dot.style.top = (%[3]f - 4) + 'px';
			dot.style.display = 'block';
		}
		const target = doc.elementFromPoint(%[2]f, %[3]f);
		if (!target) return false;
		for (const type of ['mouseover', 'mousemove', 'mouseenter']) {
			target.dispatchEvent(new MouseEvent(type, {
				bubbles: true,
				clientX: %[2]f,
				clientY: %[3]f,
				view: doc.defaultView,
			}));
		}
		return true;
	})()`, b.scanDocJS(), x, y)
}

func (b *Browser) tooltipJS() string {
	return fmt.Sprintf(`(() => {
		const doc = %s;
		const tip = doc.querySelector(%q);
		if (!tip) return false;
		const r = tip.getBoundingClientRect();
		if (r.width === 0 && r.height === 0) return false;
		return tip.outerHTML;
	})()`, b.scanDocJS(), b.opts.TooltipSelector)
}

// mergeDone returns the browser context but cancelled as soon as the caller
// context is done, so both cancellation paths are honored. chromedp actions
// must run on the chromedp context. The returned release func must be called
// once the sample finishes so the watch on the caller context is detached.
func mergeDone(caller, browser context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(browser)
	stop := context.AfterFunc(caller, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}

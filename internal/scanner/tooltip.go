package scanner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	apperrors "github.com/Navarropy/Polypropylene-Price-Scraper/internal/errors"
)

// ParseTooltip extracts a Point from a tooltip's HTML. The chart renders the
// tooltip as a list: the first item holds the date label, each remaining item
// holds a metric as a pair of labelled spans. Anything that does not match
// that shape is a sample-local parse failure.
func ParseTooltip(html string) (Point, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Point{}, apperrors.Wrap(apperrors.CodeTooltipParse, "parse tooltip html", err)
	}

	items := doc.Find("li")
	if items.Length() == 0 {
		return Point{}, apperrors.New(apperrors.CodeTooltipParse, "tooltip has no list items")
	}

	date := strings.TrimSpace(items.First().Find("span").First().Text())
	if date == "" {
		return Point{}, apperrors.New(apperrors.CodeTooltipParse, "tooltip first line has no date label")
	}

	var metrics []Metric
	items.Slice(1, items.Length()).Each(func(_ int, sel *goquery.Selection) {
		spans := sel.Find("span.custom-label")
		if spans.Length() < 2 {
			return
		}
		label := strings.TrimRight(strings.TrimSpace(spans.Eq(0).Text()), ":")
		value := strings.TrimSpace(spans.Eq(1).Text())
		if label == "" {
			return
		}
		metrics = append(metrics, Metric{Label: label, Value: value})
	})

	return Point{Date: date, Metrics: metrics}, nil
}

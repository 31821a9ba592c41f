package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// monthReplacer rewrites Portuguese month abbreviations (and lowercased
// English ones, which the lowering below produces) into the canonical form
// time.Parse expects. Dotted Portuguese forms are listed first so they win
// over their English prefixes.
var monthReplacer = strings.NewReplacer(
	"jan.", "Jan", "fev.", "Feb", "mar.", "Mar", "abr.", "Apr",
	"mai.", "May", "jun.", "Jun", "jul.", "Jul", "ago.", "Aug",
	"set.", "Sep", "out.", "Oct", "nov.", "Nov", "dez.", "Dec",
	"jan", "Jan", "fev", "Feb", "feb", "Feb", "mar", "Mar",
	"abr", "Apr", "apr", "Apr", "mai", "May", "may", "May",
	"jun", "Jun", "jul", "Jul", "ago", "Aug", "aug", "Aug",
	"set", "Sep", "sep", "Sep", "out", "Oct", "oct", "Oct",
	"nov", "Nov", "dez", "Dec", "dec", "Dec",
)

// dateLayouts are tried in order; day-first forms come before anything
// ambiguous because the source data uses DD/MM.
var dateLayouts = []string{
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan 2006",
	"2 January 2006",
	"January 2006",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"01/2006",
	"1/2006",
	"2006",
}

// ParseDate parses a date label as the source data writes them: Portuguese
// or English month abbreviations, "de" connectors, day-first numeric forms,
// or "KW w/yyyy" calendar-week labels.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, ok := parseWeekLabel(s); ok {
		return t, nil
	}

	cleaned := monthReplacer.Replace(strings.ToLower(s))
	cleaned = strings.ReplaceAll(cleaned, " de ", " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseWeekLabel parses labels like "KW 2/2018" into the Monday of that ISO
// week.
func parseWeekLabel(s string) (time.Time, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "KW") {
		return time.Time{}, false
	}
	parts := strings.Split(fields[1], "/")
	if len(parts) != 2 {
		return time.Time{}, false
	}
	week, err := strconv.Atoi(parts[0])
	if err != nil || week < 1 || week > 53 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	return isoWeekMonday(year, week), true
}

// isoWeekMonday returns the Monday of the given ISO week. January 4 always
// falls in week 1.
func isoWeekMonday(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	daysSinceMonday := (int(jan4.Weekday()) + 6) % 7
	week1Monday := jan4.AddDate(0, 0, -daysSinceMonday)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// ParseValue parses a numeric cell, tolerating decimal commas, thousands
// spaces and surrounding whitespace. Empty cells are not values.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	// "1.234.56" style from mixed separators is not recoverable; plain
	// ParseFloat decides.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable value %q", s)
	}
	return v, nil
}

package normalize

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Navarropy/Polypropylene-Price-Scraper/internal/errors"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/exporter"
)

// Record is one observation in the common three-column schema.
type Record struct {
	Date    time.Time
	Product string
	Value   float64
}

// LoadFile reads a CSV/XLSX file, detects its layout and returns the
// melted records sorted by date. Rows with unparseable dates or values are
// dropped, matching how the source sheets mix annotations into data columns.
func LoadFile(path string) ([]Record, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	lower := make([]string, len(t.headers))
	for i, h := range t.headers {
		lower[i] = strings.ToLower(h)
	}

	var records []Record
	switch {
	case len(t.headers) == 2:
		records = meltTwoColumn(t, base)
	case indexContaining(lower, "product") >= 0 && hasWeekColumns(lower):
		records = meltProductWeeks(t, lower)
	case indexContaining(lower, "date") >= 0:
		records = meltDateWide(t, lower)
	default:
		return nil, apperrors.New(apperrors.CodeLayout,
			fmt.Sprintf("unrecognized layout in %s (columns: %s)",
				filepath.Base(path), strings.Join(t.headers, ", ")))
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

// meltTwoColumn handles [Date, Value] files; the product is the file name.
func meltTwoColumn(t *table, product string) []Record {
	var out []Record
	for _, row := range t.rows {
		date, err := ParseDate(cell(row, 0))
		if err != nil {
			continue
		}
		value, err := ParseValue(cell(row, 1))
		if err != nil {
			continue
		}
		out = append(out, Record{Date: date, Product: product, Value: value})
	}
	return out
}

// meltProductWeeks handles a Product column plus one "KW w/yyyy" column per
// calendar week.
func meltProductWeeks(t *table, lower []string) []Record {
	productCol := indexContaining(lower, "product")

	var out []Record
	for _, row := range t.rows {
		product := cell(row, productCol)
		if product == "" {
			continue
		}
		for i, header := range lower {
			if !strings.Contains(header, "kw") {
				continue
			}
			date, ok := parseWeekLabel(t.headers[i])
			if !ok {
				continue
			}
			value, err := ParseValue(cell(row, i))
			if err != nil {
				continue
			}
			out = append(out, Record{Date: date, Product: product, Value: value})
		}
	}
	return out
}

// meltDateWide handles a Date column plus one column per product.
func meltDateWide(t *table, lower []string) []Record {
	dateCol := indexContaining(lower, "date")

	var out []Record
	for _, row := range t.rows {
		date, err := ParseDate(cell(row, dateCol))
		if err != nil {
			continue
		}
		for i, header := range t.headers {
			if i == dateCol || strings.TrimSpace(header) == "" {
				continue
			}
			value, err := ParseValue(cell(row, i))
			if err != nil {
				continue
			}
			out = append(out, Record{Date: date, Product: header, Value: value})
		}
	}
	return out
}

func indexContaining(lower []string, substr string) int {
	for i, h := range lower {
		if strings.Contains(h, substr) {
			return i
		}
	}
	return -1
}

func hasWeekColumns(lower []string) bool {
	for _, h := range lower {
		if strings.Contains(h, "kw") {
			return true
		}
	}
	return false
}

// ProcessFolder normalizes every CSV/XLSX in inDir into
// "<base>_normalized.csv" files in outDir. Per-file failures are logged and
// skipped; the count of normalized files is returned. Legacy .xls files are
// picked up so the log tells the user to convert them instead of silently
// ignoring the file.
func ProcessFolder(inDir, outDir string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := filepath.Glob(filepath.Join(inDir, "*.*"))
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", inDir, err)
	}

	processed := 0
	for _, path := range entries {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".csv" && ext != ".xls" && ext != ".xlsx" {
			continue
		}

		logger.Info("normalizing file", slog.String("file", path))
		records, err := LoadFile(path)
		if err != nil {
			logger.Warn("skipping file",
				slog.String("file", path),
				slog.String("error", err.Error()))
			continue
		}
		if len(records) == 0 {
			logger.Warn("no usable rows", slog.String("file", path))
			continue
		}

		base := strings.TrimSuffix(filepath.Base(path), ext)
		outPath := filepath.Join(outDir, base+"_normalized.csv")
		if err := WriteNormalized(outPath, records); err != nil {
			return processed, err
		}
		logger.Info("normalized file written",
			slog.String("file", outPath),
			slog.Int("records", len(records)))
		processed++
	}
	return processed, nil
}

// WriteNormalized writes records as a three-column CSV.
func WriteNormalized(path string, records []Record) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date.Format("2006-01-02"),
			r.Product,
			strconv.FormatFloat(r.Value, 'f', -1, 64),
		})
	}
	return exporter.WriteCSV(path, exporter.WriteOptions{
		Headers: []string{"Date", "Product", "Value"},
		Records: rows,
	})
}

// ReadNormalized reads a three-column normalized CSV back. Header matching
// is case-insensitive; files with a different column set are rejected so the
// analysis stages skip foreign CSVs.
func ReadNormalized(path string) ([]Record, error) {
	t, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	cols := map[string]int{}
	for i, h := range t.headers {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	dateCol, okDate := cols["date"]
	productCol, okProduct := cols["product"]
	valueCol, okValue := cols["value"]
	if !okDate || !okProduct || !okValue || len(cols) != 3 {
		return nil, apperrors.New(apperrors.CodeLayout,
			fmt.Sprintf("%s is not a [Date, Product, Value] file", filepath.Base(path)))
	}

	var out []Record
	for _, row := range t.rows {
		date, err := ParseDate(cell(row, dateCol))
		if err != nil {
			continue
		}
		value, err := ParseValue(cell(row, valueCol))
		if err != nil {
			continue
		}
		out = append(out, Record{Date: date, Product: cell(row, productCol), Value: value})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// GroupByProduct splits records per product, preserving date order.
func GroupByProduct(records []Record) map[string][]Record {
	groups := make(map[string][]Record)
	for _, r := range records {
		groups[r.Product] = append(groups[r.Product], r)
	}
	return groups
}

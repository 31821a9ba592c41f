package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/scanner"
)

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Headers []string
	Records [][]string
	// BOMPrefix adds a UTF-8 BOM so Excel detects the encoding.
	BOMPrefix bool
}

// WriteCSV writes a CSV file, creating parent directories and truncating any
// existing file at path.
func WriteCSV(path string, options WriteOptions) error {
	slog.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return writer.Error()
}

// ScanHeaders returns the column set for a scanned series: Date first, then
// the union of metric labels in sorted order.
func ScanHeaders(points []scanner.Point) []string {
	seen := make(map[string]bool)
	for _, p := range points {
		for _, m := range p.Metrics {
			seen[m.Label] = true
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return append([]string{"Date"}, labels...)
}

// WriteScanCSV writes the scanned series with one row per data point. Points
// missing a metric column get an empty cell.
func WriteScanCSV(path string, points []scanner.Point) error {
	headers := ScanHeaders(points)

	records := make([][]string, 0, len(points))
	for _, p := range points {
		row := make([]string, len(headers))
		row[0] = p.Date
		for i, label := range headers[1:] {
			if v, ok := p.Metric(label); ok {
				row[i+1] = v
			}
		}
		records = append(records, row)
	}

	return WriteCSV(path, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

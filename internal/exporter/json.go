package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/scanner"
)

// WriteScanJSON writes the scanned series as a JSON array of objects, each
// carrying "date" plus the point's metric fields. Key order within an object
// is alphabetical, which keeps the output diffable.
func WriteScanJSON(path string, points []scanner.Point) error {
	slog.Info("writing JSON file",
		slog.String("path", path),
		slog.Int("record_count", len(points)))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	rows := make([]map[string]string, 0, len(points))
	for _, p := range points {
		row := map[string]string{"date": p.Date}
		for _, m := range p.Metrics {
			row[m.Label] = m.Value
		}
		rows = append(rows, row)
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Package exporter writes pipeline output files: the scanned price series as
// CSV or JSON, and normalized three-column CSVs. Writes are whole-file and
// truncate any existing file at the target path; nothing here appends or
// streams.
package exporter

package normalize

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// table is a parsed sheet: one header row plus data rows. Rows may be
// ragged; consumers index defensively.
type table struct {
	headers []string
	rows    [][]string
}

// readTable reads a CSV or XLSX file into a table. For workbooks the
// first sheet is used. Legacy binary .xls is not an OOXML format and
// cannot be parsed here.
func readTable(path string) (*table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		return nil, fmt.Errorf("legacy .xls workbooks are not supported, convert %s to .xlsx", filepath.Base(path))
	case ".xlsx":
		return readExcel(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type %s", filepath.Ext(path))
	}
}

func readExcel(path string) (*table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}
	return &table{headers: trimAll(rows[0]), rows: rows[1:]}, nil
}

func readCSV(path string) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	content := strings.TrimPrefix(string(data), "\xEF\xBB\xBF")

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = sniffDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file %s is empty", filepath.Base(path))
	}
	return &table{headers: trimAll(records[0]), rows: records[1:]}, nil
}

// sniffDelimiter picks the separator from the first line. European exports
// often use semicolons because the comma is the decimal mark.
func sniffDelimiter(content string) rune {
	firstLine := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		firstLine = content[:i]
	}
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}

// cell returns row[i] or "" when the row is too short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

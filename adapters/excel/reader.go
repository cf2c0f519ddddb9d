package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"dataqc/domain/core"
	"dataqc/domain/frame"
)

// DataReader loads Excel and CSV files into frames with inferred column
// dtypes.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given file; the file type is
// picked from the extension (.csv reads as CSV, everything else as xlsx).
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadData reads the file into a frame, inferring each column's dtype from
// its values.
func (r *DataReader) ReadData() (*frame.Frame, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFile, r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 1 {
		return nil, fmt.Errorf("%s file must have a header row", strings.ToUpper(r.fileType))
	}

	return r.buildFrame(rows)
}

// readExcelRows reads all rows of Sheet1.
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// buildFrame converts raw string rows into a typed frame. The first row is
// the header; each column's dtype is inferred from its non-empty cells.
func (r *DataReader) buildFrame(rows [][]string) (*frame.Frame, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := rows[1:]
	dtypes := make(map[string]string, len(headers))
	for j, header := range headers {
		dtypes[header] = inferColumnDtype(dataRows, j)
	}

	f := frame.New(headers, dtypes)
	for _, row := range dataRows {
		parsed := make(map[string]interface{}, len(headers))
		for j, header := range headers {
			var cell string
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			parsed[header] = coerceCell(cell, dtypes[header])
		}
		f.AppendRow(parsed)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), f.RowCount())

	return f, nil
}

// inferColumnDtype picks the narrowest dtype every non-empty cell of the
// column fits: int64 -> float64 -> bool -> datetime64[ns] -> string.
func inferColumnDtype(rows [][]string, col int) string {
	isInt, isFloat, isBool, isTime := true, true, true, true
	seen := false

	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		seen = true

		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			isFloat = false
		}
		if !isBoolCell(cell) {
			isBool = false
		}
		if !isTimeCell(cell) {
			isTime = false
		}
	}

	switch {
	case !seen:
		return "string"
	case isInt:
		return "int64"
	case isFloat:
		return "float64"
	case isBool:
		return "bool"
	case isTime:
		return "datetime64[ns]"
	default:
		return "string"
	}
}

// coerceCell converts a raw cell into the typed value for its column dtype.
// Empty cells become nil (missing).
func coerceCell(cell, dtype string) interface{} {
	if cell == "" {
		return nil
	}
	switch dtype {
	case "int64":
		if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return n
		}
	case "float64":
		if n, err := strconv.ParseFloat(cell, 64); err == nil {
			return n
		}
	case "bool":
		if b, err := strconv.ParseBool(strings.ToLower(cell)); err == nil {
			return b
		}
	case "datetime64[ns]":
		if ts, ok := parseTimeCell(cell); ok {
			return ts
		}
	}
	return cell
}

func isBoolCell(cell string) bool {
	_, err := strconv.ParseBool(strings.ToLower(cell))
	return err == nil
}

var timeCellLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func isTimeCell(cell string) bool {
	_, ok := parseTimeCell(cell)
	return ok
}

func parseTimeCell(cell string) (time.Time, bool) {
	for _, layout := range timeCellLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

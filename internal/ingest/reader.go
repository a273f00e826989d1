// Package ingest decodes uploaded holding sheets (CSV and XLSX) into
// the raw row/cell shape the normalization pipeline consumes. It makes
// no attempt to interpret the content; header detection and column
// mapping happen downstream.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"pfbeta/internal/normalize"
)

// ReadUpload decodes an uploaded file into a RawTable, dispatching on
// the filename extension. Only .csv and .xlsx are supported.
func ReadUpload(filename string, r io.Reader) (normalize.RawTable, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
}

// ReadCSV decodes a delimited file into a RawTable. Rows may have
// ragged lengths; quoting is lax because broker exports frequently
// contain stray quotes in free-text cells.
func ReadCSV(r io.Reader) (normalize.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return normalize.RawTable(records), nil
}

// ReadXLSX decodes the first sheet of an Excel workbook into a
// RawTable. Cell values come back as display text, matching what the
// CSV path produces.
func ReadXLSX(r io.Reader) (normalize.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return normalize.RawTable(rows), nil
}

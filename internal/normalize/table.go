package normalize

import (
	"strconv"
	"strings"
)

// RawTable is an uploaded sheet as decoded by the ingest layer: ordered
// rows of text cells with no reliable column names. Rows may have
// ragged lengths.
type RawTable [][]string

// CanonicalRow is one holding extracted from an upload. Quantity and
// Amount default to zero when the source column is missing or the cell
// is not numeric.
type CanonicalRow struct {
	ISIN     string  `json:"isin"`
	Quantity float64 `json:"qty"`
	Amount   float64 `json:"amount"`
}

// CanonicalTable is an ordered sequence of canonical rows. Duplicate
// ISINs are permitted here; they merge during portfolio aggregation.
type CanonicalTable []CanonicalRow

// isBlankRow reports whether every cell in the row is empty after
// trimming.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cellAt returns the trimmed cell at index i, or "" when the row is too
// short. Ragged rows are common in spreadsheet exports.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseNumber parses a cell as a float, stripping thousands separators
// first. Non-numeric cells coerce to zero rather than propagating as
// missing.
func parseNumber(cell string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

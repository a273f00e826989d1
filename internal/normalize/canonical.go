package normalize

import (
	"strings"

	apierrors "pfbeta/internal/errors"
	"pfbeta/internal/isin"
)

// Column keyword sets for canonicalization. The first header containing
// any keyword in the set wins; sub-ordering within a set does not
// matter.
var (
	quantityKeywords = []string{"UNIT", "QTY", "QUANTITY"}
	amountKeywords   = []string{"MARKET VALUE", "INVESTED VALUE", "AMOUNT", "VALUE"}
)

// Canonicalize maps a table whose first row is the header onto the
// three canonical columns. The ISIN column is mandatory; quantity and
// amount columns are optional and default every row's field to zero
// when absent. Fully blank rows are dropped; row order is preserved.
func Canonicalize(t RawTable) (CanonicalTable, error) {
	if len(t) == 0 {
		return nil, apierrors.ErrISINColumnMissing
	}

	header := t[0]

	isinCol := findColumn(header, []string{isinLabel})
	if isinCol < 0 {
		return nil, apierrors.ErrISINColumnMissing
	}
	qtyCol := findColumn(header, quantityKeywords)
	amtCol := findColumn(header, amountKeywords)

	out := make(CanonicalTable, 0, len(t)-1)
	for _, row := range t[1:] {
		if isBlankRow(row) {
			continue
		}

		cr := CanonicalRow{
			ISIN: isin.Normalize(cellAt(row, isinCol)),
		}
		if qtyCol >= 0 {
			cr.Quantity = parseNumber(cellAt(row, qtyCol))
		}
		if amtCol >= 0 {
			cr.Amount = parseNumber(cellAt(row, amtCol))
		}
		out = append(out, cr)
	}

	return out, nil
}

// findColumn returns the index of the first header cell containing any
// of the keywords (case-insensitive), or -1.
func findColumn(header []string, keywords []string) int {
	for i, cell := range header {
		upper := strings.ToUpper(strings.TrimSpace(cell))
		if upper == "" {
			continue
		}
		for _, k := range keywords {
			if strings.Contains(upper, k) {
				return i
			}
		}
	}
	return -1
}

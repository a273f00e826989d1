package portfolio

import (
	"sort"

	"pfbeta/internal/normalize"
)

// Aggregate merges canonical rows from every uploaded file into one
// holding per distinct ISIN, summing quantities and amounts
// independently. Output is sorted by ISIN, so merging tables in any
// order, or merging their concatenation at once, yields identical
// results.
func Aggregate(rows normalize.CanonicalTable) []AggregatedHolding {
	byISIN := make(map[string]*AggregatedHolding)
	for _, row := range rows {
		h, ok := byISIN[row.ISIN]
		if !ok {
			h = &AggregatedHolding{ISIN: row.ISIN}
			byISIN[row.ISIN] = h
		}
		h.Quantity += row.Quantity
		h.Amount += row.Amount
	}

	out := make([]AggregatedHolding, 0, len(byISIN))
	for _, h := range byISIN {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ISIN < out[j].ISIN
	})

	return out
}

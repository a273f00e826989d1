package marketdata

import (
	"sort"
	"strings"
	"time"
)

// normalizeKey trims and upper-cases directory keys (ISINs, symbols).
func normalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Quote is one daily observation of a price series: an exchange close
// for equities and the benchmark, a NAV for fund schemes.
type Quote struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Scheme identifies one mutual fund scheme in the fund directory.
type Scheme struct {
	Code int    `json:"scheme_code"`
	Name string `json:"scheme_name"`
}

// SortQuotes orders a series ascending by date, in place.
func SortQuotes(qs []Quote) {
	sort.Slice(qs, func(i, j int) bool {
		return qs[i].Date.Before(qs[j].Date)
	})
}

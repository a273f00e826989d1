package normalize

import "strings"

// Policy selects the header-row detection heuristic.
type Policy int

const (
	// PolicyLabelClass accepts a row only when it contains an ISIN cell
	// AND a cell from the quantity/value keyword class. Requiring both
	// kinds of evidence rejects decoy rows that merely repeat a value
	// keyword, so this is the default.
	PolicyLabelClass Policy = iota
	// PolicyKeywordCount is the legacy rule: any row with at least two
	// cells containing a header keyword qualifies. Kept for
	// compatibility testing against historical fixtures.
	PolicyKeywordCount
)

// String returns the string representation of the policy
func (p Policy) String() string {
	switch p {
	case PolicyLabelClass:
		return "label-class"
	case PolicyKeywordCount:
		return "keyword-count"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a configuration string to a Policy. Unrecognized
// values fall back to the default label-class rule.
func ParsePolicy(s string) Policy {
	if strings.EqualFold(strings.TrimSpace(s), "keyword-count") {
		return PolicyKeywordCount
	}
	return PolicyLabelClass
}

// isinLabel is the substring identifying the security identifier column.
const isinLabel = "ISIN"

// quantityValueKeywords are the labels brokers use for unit counts and
// monetary values. Matching is upper-cased substring containment, so
// "No. of Units Held" matches via "UNIT".
var quantityValueKeywords = []string{
	"UNIT",
	"QUANTITY",
	"QTY",
	"MARKET VALUE",
	"INVESTED VALUE",
	"CURRENT VALUE",
	"AMOUNT",
	"VALUE",
}

// headerKeywords is the combined keyword set the legacy keyword-count
// rule scans for.
var headerKeywords = append([]string{isinLabel}, quantityValueKeywords...)

// DefaultScanDepth bounds how many leading rows are scanned for a
// header. Broker preambles fit comfortably inside it.
const DefaultScanDepth = 30

// FindHeaderRow scans the first scanDepth rows of the table and returns
// the zero-based index of the first row satisfying the policy, or -1
// when no row qualifies. The scan stops at the first hit; a header
// appearing only beyond the window is never found.
func FindHeaderRow(t RawTable, policy Policy, scanDepth int) int {
	if scanDepth <= 0 {
		scanDepth = DefaultScanDepth
	}

	limit := len(t)
	if scanDepth < limit {
		limit = scanDepth
	}

	for i := 0; i < limit; i++ {
		if rowIsHeader(t[i], policy) {
			return i
		}
	}
	return -1
}

func rowIsHeader(row []string, policy Policy) bool {
	switch policy {
	case PolicyKeywordCount:
		matches := 0
		for _, cell := range row {
			if containsAny(cell, headerKeywords) {
				matches++
			}
		}
		return matches >= 2
	default:
		hasISIN := false
		hasQuantityValue := false
		for _, cell := range row {
			upper := strings.ToUpper(strings.TrimSpace(cell))
			if strings.Contains(upper, isinLabel) {
				hasISIN = true
			}
			if containsAny(cell, quantityValueKeywords) {
				hasQuantityValue = true
			}
		}
		return hasISIN && hasQuantityValue
	}
}

func containsAny(cell string, keywords []string) bool {
	upper := strings.ToUpper(strings.TrimSpace(cell))
	if upper == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(upper, k) {
			return true
		}
	}
	return false
}

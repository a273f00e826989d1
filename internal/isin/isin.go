// Package isin validates Indian security identifiers (ISINs) and
// classifies them into the two instrument families the portfolio engine
// understands: exchange-listed equities (INE prefix) and mutual fund
// schemes (INF prefix).
package isin

import (
	"regexp"
	"strings"
)

// SecurityType identifies the instrument family an ISIN belongs to.
type SecurityType int

const (
	// Unknown covers ISINs that do not match the supported format or use
	// an issuer prefix other than INE/INF.
	Unknown SecurityType = iota
	// Equity is an exchange-listed stock (INE prefix).
	Equity
	// Fund is a mutual fund scheme (INF prefix).
	Fund
)

// String returns the string representation of the security type
func (t SecurityType) String() string {
	switch t {
	case Equity:
		return "EQUITY"
	case Fund:
		return "MF"
	default:
		return "UNKNOWN"
	}
}

// isinPattern matches the strict Indian ISIN format: "IN", a family
// letter (E for equity, F for fund), then 9 uppercase alphanumerics.
var isinPattern = regexp.MustCompile(`^IN[EF][A-Z0-9]{9}$`)

// Normalize trims surrounding whitespace and upper-cases the input.
// All other functions in this package normalize before matching, so
// callers only need Normalize when storing the canonical form.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValid reports whether s is a well-formed 12-character ISIN in one of
// the two supported families. Whitespace and case are ignored.
func IsValid(s string) bool {
	return isinPattern.MatchString(Normalize(s))
}

// Classify returns the instrument family for s. Inputs that fail the
// strict format check, or that match the format with an unsupported
// issuer prefix, classify as Unknown.
func Classify(s string) SecurityType {
	n := Normalize(s)
	if !isinPattern.MatchString(n) {
		return Unknown
	}
	switch {
	case strings.HasPrefix(n, "INE"):
		return Equity
	case strings.HasPrefix(n, "INF"):
		return Fund
	default:
		return Unknown
	}
}

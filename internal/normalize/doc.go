// Package normalize turns semi-structured brokerage holding sheets into
// a canonical three-column holdings table (ISIN, quantity, amount).
//
// Uploaded sheets rarely start with a clean header: broker exports pad
// the top with logos, account banners and disclaimers, and name their
// columns inconsistently ("No. of Units", "Qty.", "Market Value (Rs.)").
// The pipeline here recovers the real table in three steps:
//
//  1. Header detection: scan the first N rows for the row that looks
//     like the column header (header.go). Two heuristics exist; see
//     Policy.
//  2. Canonicalization: map the detected header's columns onto the
//     three canonical fields by keyword matching, coercing non-numeric
//     cells to zero (canonical.go).
//  3. Row filtering: drop rows whose ISIN fails the strict format
//     check. These are treated as non-data noise (totals, footers,
//     section banners) and discarded silently rather than reported,
//     unlike well-formed ISINs of an unknown family, which the
//     portfolio engine reports per row.
//
// The output preserves source row order and keeps duplicate ISINs;
// deduplication happens later during portfolio aggregation.
package normalize

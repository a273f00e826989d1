// Package portfolio implements the reconciliation and aggregation
// engine: merging canonical holdings across uploads, resolving each
// security's quantity, price and market value against external
// providers, computing per-security betas against the market benchmark,
// and producing a value-weighted portfolio beta.
//
// # Resolution Model
//
// Every distinct ISIN resolves independently: symbol or scheme lookup,
// price or NAV fetch, then beta from aligned daily return series. A
// failure at any step terminates that security with a human-readable
// error record; it never aborts the batch. The benchmark series is
// fetched once per request and shared read-only across the concurrent
// per-security resolutions.
//
// # Aggregation Policies
//
// Holdings arrive as a mix of explicit quantities (broker exports) and
// monetary amounts (statements). Two reconciliation rules exist:
//
//   - PolicyAdditive (default): the final quantity is the summed
//     explicit quantity plus units derived from the summed amount at
//     the resolved price. A holding split across a quantity-reporting
//     file and an amount-reporting file contributes both.
//   - PolicyQuantityWins: a positive summed quantity discards the
//     amount entirely. Matches the behavior of older statements
//     processing; selectable via configuration.
//
// # Output
//
// Each submitted ISIN appears exactly once in the result's detail list,
// either fully resolved or carrying an error string, never both. The
// portfolio beta is the value-weighted average over records holding
// both a value and a beta; when none qualify (or their total value is
// non-positive) the beta is null and the result carries a descriptive
// error alongside the full detail list.
package portfolio

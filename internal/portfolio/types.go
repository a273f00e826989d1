package portfolio

import (
	"context"
	"strings"
	"time"

	"pfbeta/internal/marketdata"
)

// AggregationPolicy selects how explicit quantities and monetary
// amounts combine for one security.
type AggregationPolicy int

const (
	// PolicyAdditive derives extra units from the summed amount at the
	// resolved price and adds them to the summed explicit quantity.
	PolicyAdditive AggregationPolicy = iota
	// PolicyQuantityWins discards the amount whenever a positive
	// explicit quantity exists.
	PolicyQuantityWins
)

// String returns the string representation of the policy
func (p AggregationPolicy) String() string {
	switch p {
	case PolicyAdditive:
		return "additive"
	case PolicyQuantityWins:
		return "quantity-wins"
	default:
		return "unknown"
	}
}

// ParseAggregationPolicy maps a configuration string to a policy.
// Unrecognized values fall back to the additive default.
func ParseAggregationPolicy(s string) AggregationPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "quantity-wins") {
		return PolicyQuantityWins
	}
	return PolicyAdditive
}

// AggregatedHolding is one distinct ISIN's combined quantity and amount
// after merging every uploaded table.
type AggregatedHolding struct {
	ISIN     string  `json:"isin"`
	Quantity float64 `json:"qty"`
	Amount   float64 `json:"amount"`
}

// PositionRecord is the per-security outcome of one reconciliation
// pass: either a fully resolved position or a failure record carrying
// only an error message. Never both.
type PositionRecord struct {
	ISIN     string   `json:"isin"`
	Type     string   `json:"type,omitempty"`
	Symbol   string   `json:"symbol,omitempty"`
	Quantity *float64 `json:"qty,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Value    *float64 `json:"value,omitempty"`
	Beta     *float64 `json:"beta,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Resolved reports whether the record carries a market value. Beta may
// still be absent on a resolved record when history was insufficient.
func (r PositionRecord) Resolved() bool {
	return r.Error == "" && r.Value != nil
}

// Result is the outcome of one portfolio reconciliation request.
// PortfolioBeta is null when no position resolved with both value and
// beta, or when the resolved total value is non-positive; Details is
// populated regardless.
type Result struct {
	PortfolioBeta *float64         `json:"portfolio_beta"`
	TotalValue    float64          `json:"total_value"`
	Details       []PositionRecord `json:"details"`
	Error         string           `json:"error,omitempty"`
}

// Provider interfaces consumed by the engine. The marketdata package
// supplies the production implementations; tests substitute fakes.

// SymbolMaster maps equity ISINs to exchange trading symbols.
type SymbolMaster interface {
	Symbol(ctx context.Context, isin string) (string, bool, error)
}

// EquityProvider serves equity prices and daily close series.
type EquityProvider interface {
	LatestPrice(ctx context.Context, symbol string) (float64, error)
	CloseSeries(ctx context.Context, symbol string) ([]marketdata.Quote, error)
}

// FundProvider serves the scheme directory and NAV data.
type FundProvider interface {
	SchemeByISIN(ctx context.Context, isin string) (marketdata.Scheme, bool, error)
	LatestNAV(ctx context.Context, schemeCode int) (float64, error)
	NAVOn(ctx context.Context, schemeCode int, date time.Time) (float64, error)
	NAVSeries(ctx context.Context, schemeCode int) ([]marketdata.Quote, error)
}

// BenchmarkProvider serves the shared market index series.
type BenchmarkProvider interface {
	Series(ctx context.Context) ([]marketdata.Quote, error)
}

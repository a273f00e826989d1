package portfolio

import (
	"context"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"pfbeta/internal/config"
	"pfbeta/internal/isin"
	"pfbeta/internal/marketdata"
	"pfbeta/internal/normalize"
)

const (
	errUnrecognizedType   = "unrecognized identifier type"
	errEquityNotFound     = "Equity ISIN not found"
	errSymbolLookupFailed = "Symbol master lookup failed"
	errPriceFetchFailed   = "Equity price fetch failed"
	errFundNotFound       = "MF ISIN not found"
	errSchemeLookupFailed = "Scheme directory lookup failed"
	errNAVFetchFailed     = "NAV fetch failed"
	errNoQuantityOrAmount = "Neither QTY nor AMOUNT provided"
	errNoValidSecurities  = "No valid securities with VALUE and BETA"
)

// Engine reconciles aggregated holdings against market data providers
// and computes the value-weighted portfolio beta. Every resolution is
// independent, so the engine fans out across holdings up to the
// configured concurrency limit. The benchmark series is fetched once
// per request and shared read-only by all beta computations.
type Engine struct {
	symbols   SymbolMaster
	equities  EquityProvider
	funds     FundProvider
	benchmark BenchmarkProvider

	policy           AggregationPolicy
	maxConcurrency   int
	equityMinCloses  int
	equityMinReturns int
	fundMinCloses    int

	logger *slog.Logger
}

// NewEngine builds an engine from the configured policy and guard
// thresholds and the given providers.
func NewEngine(cfg config.PortfolioConfig, symbols SymbolMaster, equities EquityProvider, funds FundProvider, benchmark BenchmarkProvider, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Engine{
		symbols:          symbols,
		equities:         equities,
		funds:            funds,
		benchmark:        benchmark,
		policy:           ParseAggregationPolicy(cfg.AggregationPolicy),
		maxConcurrency:   maxConcurrency,
		equityMinCloses:  cfg.EquityMinCloses,
		equityMinReturns: cfg.EquityMinReturns,
		fundMinCloses:    cfg.FundMinCloses,
		logger:           logger,
	}
}

// resolution pairs the display record with the unrounded value and
// beta. Weights and the portfolio beta are computed from the unrounded
// figures; the record carries rounded copies for output only.
type resolution struct {
	record PositionRecord
	value  *float64
	beta   *float64
}

// Reconcile aggregates the canonical rows, resolves every distinct
// ISIN concurrently, and combines the outcomes into a Result. An asOf
// date, when non-nil, selects the fund NAV effective on or before that
// date; equities always price at the latest close. Per-ISIN failures
// become error records and never abort the batch.
func (e *Engine) Reconcile(ctx context.Context, rows normalize.CanonicalTable, asOf *time.Time) Result {
	holdings := Aggregate(rows)

	bench, err := e.benchmark.Series(ctx)
	if err != nil {
		// Without a benchmark every beta is undefined. Values still
		// resolve, so the detail list stays useful.
		e.logger.WarnContext(ctx, "benchmark series unavailable, betas will be absent",
			slog.String("error", err.Error()))
		bench = nil
	}

	results := make([]resolution, len(holdings))

	g := new(errgroup.Group)
	g.SetLimit(e.maxConcurrency)
	for i, h := range holdings {
		i, h := i, h
		g.Go(func() error {
			results[i] = e.resolve(ctx, h, bench, asOf)
			return nil
		})
	}
	_ = g.Wait()

	return e.summarize(ctx, results)
}

func (e *Engine) resolve(ctx context.Context, h AggregatedHolding, bench []marketdata.Quote, asOf *time.Time) resolution {
	switch isin.Classify(h.ISIN) {
	case isin.Equity:
		return e.resolveEquity(ctx, h, bench)
	case isin.Fund:
		return e.resolveFund(ctx, h, bench, asOf)
	default:
		return resolution{record: PositionRecord{ISIN: h.ISIN, Error: errUnrecognizedType}}
	}
}

func (e *Engine) resolveEquity(ctx context.Context, h AggregatedHolding, bench []marketdata.Quote) resolution {
	symbol, ok, err := e.symbols.Symbol(ctx, h.ISIN)
	if err != nil {
		e.logger.WarnContext(ctx, "symbol master lookup failed",
			slog.String("isin", h.ISIN), slog.String("error", err.Error()))
		return resolution{record: PositionRecord{ISIN: h.ISIN, Error: errSymbolLookupFailed}}
	}
	if !ok {
		return resolution{record: PositionRecord{ISIN: h.ISIN, Error: errEquityNotFound}}
	}

	price, err := e.equities.LatestPrice(ctx, symbol)
	if err != nil {
		e.logger.WarnContext(ctx, "equity price fetch failed",
			slog.String("isin", h.ISIN), slog.String("symbol", symbol), slog.String("error", err.Error()))
		return resolution{record: PositionRecord{
			ISIN:   h.ISIN,
			Type:   isin.Equity.String(),
			Symbol: symbol,
			Error:  errPriceFetchFailed,
		}}
	}

	qty, ok := e.finalQuantity(h, price)
	if !ok {
		return resolution{record: PositionRecord{
			ISIN:   h.ISIN,
			Type:   isin.Equity.String(),
			Symbol: symbol,
			Error:  errNoQuantityOrAmount,
		}}
	}
	value := qty * price

	var beta *float64
	if bench != nil {
		series, err := e.equities.CloseSeries(ctx, symbol)
		if err != nil {
			e.logger.WarnContext(ctx, "equity close series fetch failed, beta absent",
				slog.String("isin", h.ISIN), slog.String("symbol", symbol), slog.String("error", err.Error()))
		} else if b, ok := Beta(series, bench, e.equityMinCloses, e.equityMinReturns); ok {
			beta = &b
		}
	}

	return resolution{
		record: PositionRecord{
			ISIN:     h.ISIN,
			Type:     isin.Equity.String(),
			Symbol:   symbol,
			Quantity: ptr(round(qty, 6)),
			Price:    ptr(round(price, 2)),
			Value:    ptr(round(value, 2)),
			Beta:     roundPtr(beta, 6),
		},
		value: &value,
		beta:  beta,
	}
}

func (e *Engine) resolveFund(ctx context.Context, h AggregatedHolding, bench []marketdata.Quote, asOf *time.Time) resolution {
	scheme, ok, err := e.funds.SchemeByISIN(ctx, h.ISIN)
	if err != nil {
		e.logger.WarnContext(ctx, "scheme directory lookup failed",
			slog.String("isin", h.ISIN), slog.String("error", err.Error()))
		return resolution{record: PositionRecord{ISIN: h.ISIN, Error: errSchemeLookupFailed}}
	}
	if !ok {
		return resolution{record: PositionRecord{ISIN: h.ISIN, Error: errFundNotFound}}
	}

	var nav float64
	if asOf != nil {
		nav, err = e.funds.NAVOn(ctx, scheme.Code, *asOf)
	} else {
		nav, err = e.funds.LatestNAV(ctx, scheme.Code)
	}
	if err != nil {
		e.logger.WarnContext(ctx, "nav fetch failed",
			slog.String("isin", h.ISIN), slog.Int("scheme_code", scheme.Code), slog.String("error", err.Error()))
		return resolution{record: PositionRecord{
			ISIN:   h.ISIN,
			Type:   isin.Fund.String(),
			Symbol: scheme.Name,
			Error:  errNAVFetchFailed,
		}}
	}

	qty, ok := e.finalQuantity(h, nav)
	if !ok {
		return resolution{record: PositionRecord{
			ISIN:   h.ISIN,
			Type:   isin.Fund.String(),
			Symbol: scheme.Name,
			Error:  errNoQuantityOrAmount,
		}}
	}
	value := qty * nav

	var beta *float64
	if bench != nil {
		series, err := e.funds.NAVSeries(ctx, scheme.Code)
		if err != nil {
			e.logger.WarnContext(ctx, "nav series fetch failed, beta absent",
				slog.String("isin", h.ISIN), slog.Int("scheme_code", scheme.Code), slog.String("error", err.Error()))
		} else if b, ok := Beta(series, bench, e.fundMinCloses, 1); ok {
			// NAV histories guard on aligned closes only; 60 aligned
			// NAVs always yield enough return pairs.
			beta = &b
		}
	}

	return resolution{
		record: PositionRecord{
			ISIN:     h.ISIN,
			Type:     isin.Fund.String(),
			Symbol:   scheme.Name,
			Quantity: ptr(round(qty, 6)),
			Price:    ptr(round(nav, 4)),
			Value:    ptr(round(value, 2)),
			Beta:     roundPtr(beta, 6),
		},
		value: &value,
		beta:  beta,
	}
}

// finalQuantity combines a holding's explicit quantity and monetary
// amount into the number of units, at the given unit price, under the
// configured policy. It reports false when neither a positive quantity
// nor a usable amount exists.
func (e *Engine) finalQuantity(h AggregatedHolding, price float64) (float64, bool) {
	explicit := 0.0
	if h.Quantity > 0 {
		explicit = h.Quantity
	}

	derived := 0.0
	if h.Amount > 0 && price > 0 {
		derived = h.Amount / price
	}

	if e.policy == PolicyQuantityWins && explicit > 0 {
		return explicit, true
	}
	qty := explicit + derived
	if e.policy == PolicyQuantityWins {
		qty = derived
	}
	if qty <= 0 {
		return 0, false
	}
	return qty, true
}

func (e *Engine) summarize(ctx context.Context, results []resolution) Result {
	details := make([]PositionRecord, len(results))
	var totalValue, weightedBeta float64
	valid := 0
	for i, r := range results {
		details[i] = r.record
		if r.value != nil && r.beta != nil {
			totalValue += *r.value
			weightedBeta += *r.value * *r.beta
			valid++
		}
	}

	if valid == 0 || totalValue <= 0 {
		return Result{
			PortfolioBeta: nil,
			TotalValue:    0,
			Details:       details,
			Error:         errNoValidSecurities,
		}
	}

	portfolioBeta := round(weightedBeta/totalValue, 6)
	e.logger.InfoContext(ctx, "portfolio reconciled",
		slog.Int("holdings", len(results)),
		slog.Int("valid", valid),
		slog.Float64("portfolio_beta", portfolioBeta))

	return Result{
		PortfolioBeta: &portfolioBeta,
		TotalValue:    round(totalValue, 2),
		Details:       details,
	}
}

func round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}

func ptr(x float64) *float64 { return &x }

func roundPtr(x *float64, places int) *float64 {
	if x == nil {
		return nil
	}
	return ptr(round(*x, places))
}

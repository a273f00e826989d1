// Command betacalc calculates a portfolio beta from holdings files on
// disk, without the web layer. It normalizes every input file, runs the
// reconciliation engine against the live market data providers, and
// prints the result as JSON.
//
// Usage:
//
//	betacalc [-date YYYY-MM-DD] holdings1.xlsx [holdings2.csv ...]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"pfbeta/internal/config"
	"pfbeta/internal/infrastructure"
	"pfbeta/internal/ingest"
	"pfbeta/internal/marketdata"
	"pfbeta/internal/normalize"
	"pfbeta/internal/portfolio"
)

func main() {
	valuationDate := flag.String("date", "", "valuation date for fund NAV resolution (YYYY-MM-DD)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall calculation timeout")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: betacalc [-date YYYY-MM-DD] <holdings file> [...]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	// CLI output goes to stdout; keep logs on stderr.
	cfg.Logging.Output = "stderr"

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	var asOf *time.Time
	if *valuationDate != "" {
		t, err := time.Parse("2006-01-02", *valuationDate)
		if err != nil {
			logger.Error("invalid valuation date, expected YYYY-MM-DD", "value", *valuationDate)
			os.Exit(2)
		}
		asOf = &t
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pipeline := normalize.NewPipeline(
		normalize.ParsePolicy(cfg.Normalize.HeaderPolicy),
		cfg.Normalize.ScanDepth,
		logger,
	)

	var rows normalize.CanonicalTable
	for _, path := range flag.Args() {
		table, err := readHoldings(ctx, pipeline, path)
		if err != nil {
			logger.Error("failed to read holdings file", "file", path, "error", err)
			os.Exit(1)
		}
		logger.Info("holdings file normalized", "file", path, "rows", len(table))
		rows = append(rows, table...)
	}

	providers := marketdata.NewProviders(cfg.Providers, logger)
	engine := portfolio.NewEngine(
		cfg.Portfolio,
		providers.Symbols,
		providers.Equities,
		providers.Funds,
		providers.Benchmark,
		logger,
	)

	result := engine.Reconcile(ctx, rows, asOf)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}

	if result.PortfolioBeta == nil {
		os.Exit(1)
	}
}

func readHoldings(ctx context.Context, pipeline *normalize.Pipeline, path string) (normalize.CanonicalTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := ingest.ReadUpload(path, f)
	if err != nil {
		return nil, err
	}
	return pipeline.Normalize(ctx, raw)
}

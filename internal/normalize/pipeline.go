package normalize

import (
	"context"
	"log/slog"

	apierrors "pfbeta/internal/errors"
	"pfbeta/internal/isin"
)

// Pipeline orchestrates header detection and canonicalization for one
// uploaded table.
type Pipeline struct {
	policy    Policy
	scanDepth int
	logger    *slog.Logger
}

// NewPipeline creates a normalization pipeline with the given header
// detection policy and scan depth.
func NewPipeline(policy Policy, scanDepth int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if scanDepth <= 0 {
		scanDepth = DefaultScanDepth
	}
	return &Pipeline{
		policy:    policy,
		scanDepth: scanDepth,
		logger:    logger,
	}
}

// Normalize converts a raw uploaded table into a canonical holdings
// table. Tables whose first row already carries an ISIN column skip
// header detection. After canonicalization, rows whose ISIN fails the
// strict format check are dropped silently; they are assumed to be
// totals, footers or other non-data noise.
//
// Returns errors.ErrHeaderNotFound when no row in the scan window
// qualifies as a header, and errors.ErrISINColumnMissing when the
// header row carries no ISIN column. Both abort this file only.
func (p *Pipeline) Normalize(ctx context.Context, raw RawTable) (CanonicalTable, error) {
	table := raw

	if !hasISINHeader(raw) {
		headerRow := FindHeaderRow(raw, p.policy, p.scanDepth)
		if headerRow < 0 {
			p.logger.WarnContext(ctx, "no header row detected",
				slog.Int("rows", len(raw)),
				slog.Int("scan_depth", p.scanDepth),
				slog.String("policy", p.policy.String()),
			)
			return nil, apierrors.ErrHeaderNotFound
		}
		p.logger.DebugContext(ctx, "header row detected",
			slog.Int("row_index", headerRow),
			slog.String("policy", p.policy.String()),
		)
		table = raw[headerRow:]
	}

	canonical, err := Canonicalize(table)
	if err != nil {
		return nil, err
	}

	// Second-stage filter: keep only rows with a well-formed ISIN.
	kept := make(CanonicalTable, 0, len(canonical))
	for _, row := range canonical {
		if isin.IsValid(row.ISIN) {
			kept = append(kept, row)
		}
	}

	p.logger.InfoContext(ctx, "upload normalized",
		slog.Int("raw_rows", len(raw)),
		slog.Int("data_rows", len(canonical)),
		slog.Int("holding_rows", len(kept)),
	)

	return kept, nil
}

// hasISINHeader reports whether the table's first row already names an
// ISIN column, meaning the upload is tabular and needs no header
// detection.
func hasISINHeader(t RawTable) bool {
	if len(t) == 0 {
		return false
	}
	return findColumn(t[0], []string{isinLabel}) >= 0
}

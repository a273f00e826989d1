package normalize

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "pfbeta/internal/errors"
)

func testPipeline() *Pipeline {
	return NewPipeline(PolicyLabelClass, DefaultScanDepth, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestPipelineNormalize(t *testing.T) {
	ctx := context.Background()

	t.Run("sheet with preamble needs header rebuild", func(t *testing.T) {
		raw := RawTable{
			{"Acme Broking Ltd"},
			{"Holdings Statement as on 31-Mar-2026"},
			{""},
			{"ISIN", "No. of Units", "Invested Value"},
			{"INE123456789", "100", "5000"},
			{"INF987654321", "", "10,000"},
			{"Total", "", "15,000"},
		}

		got, err := testPipeline().Normalize(ctx, raw)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, CanonicalRow{ISIN: "INE123456789", Quantity: 100, Amount: 5000}, got[0])
		assert.Equal(t, CanonicalRow{ISIN: "INF987654321", Quantity: 0, Amount: 10000}, got[1])
	})

	t.Run("already tabular sheet skips header detection", func(t *testing.T) {
		// The banner row would fail header detection, but row 0 already
		// names an ISIN column so the table is used as-is.
		raw := RawTable{
			{"ISIN", "Qty", "Value"},
			{"INE123456789", "50", "0"},
		}

		got, err := testPipeline().Normalize(ctx, raw)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 50.0, got[0].Quantity)
	})

	t.Run("noise rows dropped silently", func(t *testing.T) {
		raw := RawTable{
			{"ISIN", "Qty", "Amount"},
			{"INE123456789", "10", "100"},
			{"Grand Total", "10", "100"},
			{"XX0000000000", "5", "50"}, // well-formed length, wrong format: dropped here
			{"", "", ""},
		}

		got, err := testPipeline().Normalize(ctx, raw)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "INE123456789", got[0].ISIN)
	})

	t.Run("header not found", func(t *testing.T) {
		raw := RawTable{
			{"just"},
			{"random"},
			{"text"},
		}
		_, err := testPipeline().Normalize(ctx, raw)
		assert.ErrorIs(t, err, apierrors.ErrHeaderNotFound)
	})

	t.Run("detected header without isin under keyword-count", func(t *testing.T) {
		// Legacy policy can match a row with two value keywords and no
		// ISIN cell; canonicalization then fails on the missing column.
		p := NewPipeline(PolicyKeywordCount, DefaultScanDepth, nil)
		raw := RawTable{
			{"Invested Value", "Current Value"},
			{"100", "110"},
		}
		_, err := p.Normalize(context.Background(), raw)
		assert.ErrorIs(t, err, apierrors.ErrISINColumnMissing)
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := testPipeline().Normalize(ctx, RawTable{})
		assert.ErrorIs(t, err, apierrors.ErrHeaderNotFound)
	})
}

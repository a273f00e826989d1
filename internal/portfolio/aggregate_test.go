package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfbeta/internal/normalize"
)

func TestAggregate(t *testing.T) {
	t.Run("duplicate ISINs merge with independent sums", func(t *testing.T) {
		rows := normalize.CanonicalTable{
			{ISIN: "INE123456789", Quantity: 100, Amount: 0},
			{ISIN: "INF987654321", Quantity: 0, Amount: 10000},
			{ISIN: "INE123456789", Quantity: 50, Amount: 2500},
		}

		got := Aggregate(rows)
		require.Len(t, got, 2)
		assert.Equal(t, AggregatedHolding{ISIN: "INE123456789", Quantity: 150, Amount: 2500}, got[0])
		assert.Equal(t, AggregatedHolding{ISIN: "INF987654321", Quantity: 0, Amount: 10000}, got[1])
	})

	t.Run("output sorted by ISIN", func(t *testing.T) {
		rows := normalize.CanonicalTable{
			{ISIN: "INF987654321", Amount: 1},
			{ISIN: "INE000000001", Quantity: 1},
			{ISIN: "INE999999999", Quantity: 2},
		}

		got := Aggregate(rows)
		require.Len(t, got, 3)
		assert.Equal(t, "INE000000001", got[0].ISIN)
		assert.Equal(t, "INE999999999", got[1].ISIN)
		assert.Equal(t, "INF987654321", got[2].ISIN)
	})

	t.Run("row order does not affect the result", func(t *testing.T) {
		a := normalize.CanonicalTable{
			{ISIN: "INE123456789", Quantity: 10},
			{ISIN: "INF987654321", Amount: 500},
			{ISIN: "INE123456789", Amount: 200},
		}
		b := normalize.CanonicalTable{a[2], a[0], a[1]}

		assert.Equal(t, Aggregate(a), Aggregate(b))
	})

	t.Run("cross-file duplicates merge like in-file duplicates", func(t *testing.T) {
		fileA := normalize.CanonicalTable{
			{ISIN: "INE123456789", Quantity: 10, Amount: 100},
		}
		fileB := normalize.CanonicalTable{
			{ISIN: "INE123456789", Quantity: 5},
			{ISIN: "INF987654321", Amount: 50},
		}

		combined := append(append(normalize.CanonicalTable{}, fileA...), fileB...)
		got := Aggregate(combined)
		require.Len(t, got, 2)
		assert.Equal(t, AggregatedHolding{ISIN: "INE123456789", Quantity: 15, Amount: 100}, got[0])
		assert.Equal(t, AggregatedHolding{ISIN: "INF987654321", Quantity: 0, Amount: 50}, got[1])
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, Aggregate(nil))
	})
}

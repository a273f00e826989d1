package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfbeta/internal/marketdata"
)

var seriesStart = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

// benchmarkSeries builds n daily closes starting at 100 with
// alternating +1% and -0.5% moves.
func benchmarkSeries(n int) []marketdata.Quote {
	out := make([]marketdata.Quote, n)
	close := 100.0
	for i := range out {
		out[i] = marketdata.Quote{Date: seriesStart.AddDate(0, 0, i), Close: close}
		if i%2 == 0 {
			close *= 1.01
		} else {
			close *= 0.995
		}
	}
	return out
}

// scaledSeries derives a security series whose daily returns are
// exactly scale times the benchmark's, so its true beta equals scale.
func scaledSeries(bench []marketdata.Quote, scale float64) []marketdata.Quote {
	out := make([]marketdata.Quote, len(bench))
	close := 100.0
	for i, b := range bench {
		out[i] = marketdata.Quote{Date: b.Date, Close: close}
		if i+1 < len(bench) {
			r := bench[i+1].Close/b.Close - 1
			close *= 1 + scale*r
		}
	}
	return out
}

func TestBeta(t *testing.T) {
	bench := benchmarkSeries(40)

	t.Run("identical series has beta one", func(t *testing.T) {
		got, ok := Beta(bench, bench, 30, 20)
		require.True(t, ok)
		assert.InDelta(t, 1.0, got, 1e-9)
	})

	t.Run("scaled returns recover the scale", func(t *testing.T) {
		got, ok := Beta(scaledSeries(bench, 1.2), bench, 30, 20)
		require.True(t, ok)
		assert.InDelta(t, 1.2, got, 1e-9)

		got, ok = Beta(scaledSeries(bench, 0.5), bench, 30, 20)
		require.True(t, ok)
		assert.InDelta(t, 0.5, got, 1e-9)
	})

	t.Run("too few aligned closes", func(t *testing.T) {
		short := scaledSeries(bench, 1)[:29]
		_, ok := Beta(short, bench, 30, 20)
		assert.False(t, ok)
	})

	t.Run("too few return pairs", func(t *testing.T) {
		security := scaledSeries(bench, 1)[:35]
		_, ok := Beta(security, bench, 30, 40)
		assert.False(t, ok)
	})

	t.Run("flat benchmark has zero variance", func(t *testing.T) {
		flat := make([]marketdata.Quote, 40)
		for i := range flat {
			flat[i] = marketdata.Quote{Date: seriesStart.AddDate(0, 0, i), Close: 100}
		}
		_, ok := Beta(scaledSeries(bench, 1), flat, 30, 20)
		assert.False(t, ok)
	})

	t.Run("disjoint dates never align", func(t *testing.T) {
		shifted := make([]marketdata.Quote, len(bench))
		for i, q := range bench {
			shifted[i] = marketdata.Quote{Date: q.Date.AddDate(1, 0, 0), Close: q.Close}
		}
		_, ok := Beta(shifted, bench, 30, 20)
		assert.False(t, ok)
	})

	t.Run("alignment joins on date not position", func(t *testing.T) {
		// Drop every fifth security observation; the join must skip the
		// missing dates and still recover the scale from the rest.
		security := scaledSeries(bench, 2)
		var sparse []marketdata.Quote
		for i, q := range security {
			if i%5 == 4 {
				continue
			}
			sparse = append(sparse, q)
		}
		got, ok := Beta(sparse, bench, 30, 20)
		require.True(t, ok)
		assert.Greater(t, got, 1.0)
	})
}

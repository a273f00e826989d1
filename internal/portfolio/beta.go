package portfolio

import (
	"pfbeta/internal/marketdata"
)

// Beta computes the slope of security returns against benchmark
// returns over the dates both series share. The join is by exact
// date, so each series must carry one close per trading day. It
// returns false when fewer than minCloses dates align, when fewer
// than minReturns return pairs result, or when the benchmark shows
// zero variance over the window.
func Beta(security, benchmark []marketdata.Quote, minCloses, minReturns int) (float64, bool) {
	benchByDate := make(map[string]float64, len(benchmark))
	for _, q := range benchmark {
		benchByDate[q.Date.Format("2006-01-02")] = q.Close
	}

	var secCloses, benchCloses []float64
	for _, q := range security {
		b, ok := benchByDate[q.Date.Format("2006-01-02")]
		if !ok {
			continue
		}
		secCloses = append(secCloses, q.Close)
		benchCloses = append(benchCloses, b)
	}
	if len(secCloses) < minCloses {
		return 0, false
	}

	secReturns := percentChanges(secCloses)
	benchReturns := percentChanges(benchCloses)
	if len(secReturns) < minReturns || len(secReturns) != len(benchReturns) {
		return 0, false
	}

	benchVar := variance(benchReturns)
	if benchVar == 0 {
		return 0, false
	}

	return covariance(secReturns, benchReturns) / benchVar, true
}

// percentChanges drops pairs where the prior close is zero, keeping
// the two return series aligned only when no zeros occur. Zero closes
// do not appear in practice for listed securities or published NAVs.
func percentChanges(closes []float64) []float64 {
	out := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func variance(xs []float64) float64 {
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

func covariance(xs, ys []float64) float64 {
	mx, my := mean(xs), mean(ys)
	var sum float64
	for i := range xs {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(len(xs))
}

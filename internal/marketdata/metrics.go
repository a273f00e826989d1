package marketdata

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pfbeta_provider_requests_total",
		Help: "Outbound requests to market data providers.",
	}, []string{"provider"})

	providerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pfbeta_provider_errors_total",
		Help: "Failed requests to market data providers.",
	}, []string{"provider"})

	cacheRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pfbeta_cache_refresh_total",
		Help: "Successful refreshes of provider caches.",
	}, []string{"cache"})
)

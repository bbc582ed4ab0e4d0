package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "venues"

var (
	// ProviderRequests 按操作与结果统计外部接口调用。
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Outbound provider requests by operation and result.",
	}, []string{"operation", "result"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "provider",
		Name:      "request_duration_seconds",
		Help:      "Outbound provider request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	// MapSearches 视窗搜索结果：applied / stale / failed / suppressed / inactive。
	MapSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "map",
		Name:      "searches_total",
		Help:      "Viewport searches by outcome.",
	}, []string{"outcome"})

	MapTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "map",
		Name:      "transitions_total",
		Help:      "Map lifecycle transitions.",
	}, []string{"from", "to"})
)

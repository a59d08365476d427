package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP 请求指标，由 middleware.Metrics 记录，/metrics 端点暴露
var (
	RequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartschool",
		Name:      "http_requests_total",
		Help:      "HTTP 请求总数",
	}, []string{"method", "path", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "smartschool",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 请求耗时分布",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	ToolCalls     *prometheus.CounterVec
	DatasetLoads  prometheus.Counter
	QueryDuration *prometheus.HistogramVec
	ContextWrites prometheus.Counter
	ErrorsCount   *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ToolCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "The total number of MCP tool calls",
		}, []string{"tool"}),
		DatasetLoads: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "The total number of flight dataset loads",
		}),
		QueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Time taken to serve MCP tool calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		ContextWrites: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_writes_total",
			Help:      "The total number of user context writes",
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}

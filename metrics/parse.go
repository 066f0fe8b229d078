// Package metrics has prometheus metric variables/functions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricParse = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eml_parse_total",
			Help: "Messages parsed, by result: ok for a clean parse, recovered when at least one fallback was taken.",
		},
		[]string{"result"},
	)

	metricRecovery = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eml_parse_recovery_total",
			Help: "Recoveries during parsing, by kind: header-separator, charset, field, mailbox, content-type, boundary, depth.",
		},
		[]string{"kind"},
	)
)

// ParseObserve counts a completed parse.
func ParseObserve(recovered bool) {
	result := "ok"
	if recovered {
		result = "recovered"
	}
	metricParse.WithLabelValues(result).Inc()
}

// Recovery counts a fallback taken during parsing.
func Recovery(kind string) {
	metricRecovery.WithLabelValues(kind).Inc()
}

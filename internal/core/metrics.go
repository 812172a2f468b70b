// AngelaMos | 2026
// metrics.go

package core

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	authzDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Authorization decisions by action and result.",
		},
		[]string{"action", "result"},
	)

	rateLimitRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rejected by the sliding-window rate limiter.",
		},
		[]string{"operation"},
	)

	auditWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Audit entries that could not be persisted.",
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		authzDecisionsTotal,
		rateLimitRejectionsTotal,
		auditWriteFailuresTotal,
	)
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func RecordAuthzDecision(action, result string) {
	authzDecisionsTotal.WithLabelValues(action, result).Inc()
}

func RecordRateLimitRejection(operation string) {
	rateLimitRejectionsTotal.WithLabelValues(operation).Inc()
}

func RecordAuditWriteFailure() {
	auditWriteFailuresTotal.Inc()
}

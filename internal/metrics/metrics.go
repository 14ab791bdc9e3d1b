package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hr",
		Subsystem: "recruitment",
		Name:      "status_transitions_total",
		Help:      "Total number of recorded status transitions broken down by entity type and source.",
	}, []string{"entity_type", "source"})

	positionRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hr",
		Subsystem: "positions",
		Name:      "rejections_total",
		Help:      "Total number of rejected organizational position writes broken down by reason.",
	}, []string{"reason"})

	permissionDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hr",
		Subsystem: "auth",
		Name:      "permission_denials_total",
		Help:      "Total number of denied permission checks broken down by module and action.",
	}, []string{"module", "action"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hr",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests broken down by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hr",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// RecordStatusTransition учитывает записанную смену статуса
func RecordStatusTransition(entityType string, automatic bool) {
	source := "manual"
	if automatic {
		source = "automatic"
	}
	statusTransitions.WithLabelValues(entityType, source).Inc()
}

// RecordPositionRejection учитывает отклонённую проверку штатной позиции
func RecordPositionRejection(reason string) {
	if reason == "" {
		reason = "other"
	}
	positionRejections.WithLabelValues(reason).Inc()
}

// RecordPermissionDenial учитывает отказ в доступе
func RecordPermissionDenial(module, action string) {
	permissionDenials.WithLabelValues(module, action).Inc()
}

// ObserveHTTPRequest учитывает обработанный HTTP запрос
func ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

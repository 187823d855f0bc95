package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_leads",
			Help: "Number of leads per status at the last stats computation",
		},
		[]string{"status"},
	)

	conversionRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_conversion_rate_percent",
			Help: "Signed leads as a percentage of all leads",
		},
	)

	signedRevenue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_signed_revenue",
			Help: "Sum of monthly earnings of signed leads",
		},
	)

	followUpsDue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_follow_ups_due",
			Help: "Pending leads not contacted for a week or more",
		},
	)

	leadEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_events_total",
			Help: "Total number of lead events published",
		},
		[]string{"type", "result"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// unmatchedRoute labels requests no route claimed, so 404 scans share one series.
const unmatchedRoute = "unmatched"

// routePattern keeps lead ids out of the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

// LeadStatsRecorder publishes pipeline stats as gauges.
type LeadStatsRecorder struct{}

func (LeadStatsRecorder) RecordLeadStats(s entity.LeadStats) {
	leadsByStatus.WithLabelValues(string(entity.StatusPending)).Set(float64(s.PendingLeads))
	leadsByStatus.WithLabelValues(string(entity.StatusSigned)).Set(float64(s.SignedLeads))
	leadsByStatus.WithLabelValues(string(entity.StatusDead)).Set(float64(s.DeadLeads))
	conversionRate.Set(s.ConversionRate)
	signedRevenue.Set(float64(s.TotalRevenue))
	followUpsDue.Set(float64(s.NeedsFollowUp))
}

func RecordLeadEvent(event entity.LeadEvent, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	leadEvents.WithLabelValues(string(event.Type), result).Inc()
}

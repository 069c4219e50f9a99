package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotedesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quotedesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotedesk_auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	registrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quotedesk_registrations_total",
			Help: "Total number of accounts registered",
		},
	)

	quoteRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quotedesk_quote_requests_total",
			Help: "Total number of quote requests submitted",
		},
	)

	quoteResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotedesk_quote_responses_total",
			Help: "Total number of admin quote responses by assigned status",
		},
		[]string{"status"},
	)

	contactMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quotedesk_contact_messages_total",
			Help: "Total number of contact form messages",
		},
	)

	reviewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quotedesk_reviews_total",
			Help: "Total number of reviews posted",
		},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotedesk_list_cache_lookups_total",
			Help: "Public list cache lookups by list and result",
		},
		[]string{"list", "result"},
	)
)

// PrometheusMiddleware records request count and latency per route pattern
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func RecordAuthAttempt(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	authAttemptsTotal.WithLabelValues(status).Inc()
}

func RecordRegistration() {
	registrationsTotal.Inc()
}

func RecordQuoteRequest() {
	quoteRequestsTotal.Inc()
}

func RecordQuoteResponse(status string) {
	quoteResponsesTotal.WithLabelValues(status).Inc()
}

func RecordContactMessage() {
	contactMessagesTotal.Inc()
}

func RecordReview() {
	reviewsTotal.Inc()
}

func RecordCacheLookup(list string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(list, result).Inc()
}

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookreview_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreview_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookreview_db_query_duration_seconds",
			Help:    "Duration of PostgreSQL queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_db_query_errors_total",
			Help: "Total number of PostgreSQL query errors",
		},
		[]string{"operation"},
	)

	// Domain
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"result"}, // "success", "failure"
	)

	ReviewsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_reviews_created_total",
			Help: "Reviews created by workflow",
		},
		[]string{"workflow"}, // "simple", "comprehensive"
	)

	BooksDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreview_books_deleted_total",
			Help: "Books deleted by superusers",
		},
	)

	CoverUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_cover_uploads_total",
			Help: "Cover image uploads by backend and outcome",
		},
		[]string{"backend", "result"},
	)

	// Open Library
	OpenLibraryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreview_openlibrary_requests_total",
			Help: "Open Library API requests by endpoint and outcome",
		},
		[]string{"endpoint", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookreview_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDBQuery records a repository call. A query that matched no rows is
// not an error.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

func RecordLogin(success bool) {
	if success {
		LoginAttempts.WithLabelValues("success").Inc()
		return
	}
	LoginAttempts.WithLabelValues("failure").Inc()
}

func RecordOpenLibrary(endpoint string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	OpenLibraryRequests.WithLabelValues(endpoint, result).Inc()
}

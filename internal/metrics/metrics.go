package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const namespace = "assetdesk"

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	complaintTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaint_transitions_total",
			Help:      "Complaint state transitions by operation and target status",
		},
		[]string{"operation", "status"},
	)

	quoteReviewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_reviews_total",
			Help:      "Quote response reviews by outcome",
		},
		[]string{"status"},
	)

	quoteResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_responses_submitted_total",
			Help:      "Vendor quote responses submitted or resubmitted",
		},
	)

	linkerMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "linker_matches_total",
			Help:      "Complaint lookups on quote acceptance by match strategy",
		},
		[]string{"strategy"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by type and result",
		},
		[]string{"type", "result"},
	)

	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "database_connections_active",
			Help:      "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "database_connections_idle",
			Help:      "Number of idle database connections",
		},
	)
)

var once sync.Once

func init() {
	prometheus.MustRegister(
		apiRequestsTotal,
		apiRequestDuration,
		complaintTransitionsTotal,
		quoteReviewsTotal,
		quoteResponsesTotal,
		linkerMatchesTotal,
		notificationsTotal,
		databaseConnectionsActive,
		databaseConnectionsIdle,
	)

	once.Do(func() {
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordAPIRequest(method, path string, status int, duration float64) {
	apiRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordComplaintTransition(operation, status string) {
	complaintTransitionsTotal.WithLabelValues(operation, status).Inc()
}

func RecordQuoteReview(status string) {
	quoteReviewsTotal.WithLabelValues(status).Inc()
}

func RecordQuoteResponse() {
	quoteResponsesTotal.Inc()
}

func RecordLink(strategy string) {
	linkerMatchesTotal.WithLabelValues(strategy).Inc()
}

// RecordNotification result is "sent", "skipped" or "failed".
func RecordNotification(typ, result string) {
	notificationsTotal.WithLabelValues(typ, result).Inc()
}

// UpdateDatabaseConnections samples the pool statistics.
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.InUse))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	return nil
}

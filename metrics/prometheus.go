package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_client_requests_total",
			Help: "Total number of calls issued to the marketplace API.",
		},
		[]string{"method", "endpoint", "status"},
	)
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_client_request_duration_seconds",
			Help:    "Histogram of marketplace API call durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)
	purchasesConfirmedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_confirmed_total",
			Help: "Purchase confirmations by outcome.",
		},
		[]string{"outcome"},
	)
	listingsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_submitted_total",
			Help: "Listing submissions by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(purchasesConfirmedTotal)
	prometheus.MustRegister(listingsSubmittedTotal)
}

// RecordAPIRequest записывает метрики для исходящего запроса к API.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	apiRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	apiRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordPurchase counts one confirm attempt; outcome is "success" or "failure".
func RecordPurchase(outcome string) {
	purchasesConfirmedTotal.WithLabelValues(outcome).Inc()
}

// RecordSubmission counts one listing submission attempt.
func RecordSubmission(outcome string) {
	listingsSubmittedTotal.WithLabelValues(outcome).Inc()
}

// classifyStatus классифицирует HTTP-статус код в строку.
func classifyStatus(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "2xx"
	} else if statusCode >= 300 && statusCode < 400 {
		return "3xx"
	} else if statusCode >= 400 && statusCode < 500 {
		return "4xx"
	} else if statusCode >= 500 && statusCode < 600 {
		return "5xx"
	}
	return "unknown"
}

// MetricsHandler возвращает HTTP-обработчик для экспорта метрик Prometheus.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

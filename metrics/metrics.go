// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid_shape"
	ResultError    = "error"
)

var (
	// QueriesTotal counts store operations by result.
	// Labels: operation, result ("success", "not_found", "invalid_shape", "error")
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "friendgraph_queries_total",
		Help: "Total friendship store operations by result",
	}, []string{"operation", "result"})

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "friendgraph_query_duration_seconds",
		Help:    "Friendship store operation duration",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"operation"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "friendgraph_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "friendgraph_websocket_clients",
		Help: "Connected websocket clients",
	})
)

func ObserveQuery(operation string, start time.Time, result string) {
	QueriesTotal.WithLabelValues(operation, result).Inc()
	QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func ObserveHTTP(method, route string, status int) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}

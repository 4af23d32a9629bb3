package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lostfound_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lostfound_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func observeRequest(method, path string, status int, elapsed time.Duration) {
	p := normalizePath(path)
	httpRequestsTotal.WithLabelValues(method, p, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, p).Observe(elapsed.Seconds())
}

// MetricsHandler serves the Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// normalizePath replaces item IDs with {id} and folds static files into one
// label so the path label stays bounded.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}

	for _, prefix := range []string{"/api/items/", "/items/"} {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || rest == "" {
			continue
		}
		id, suffix, _ := strings.Cut(rest, "/")
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			return prefix + "{invalid}"
		}
		switch suffix {
		case "":
			return prefix + "{id}"
		case "photo":
			return prefix + "{id}/photo"
		}
		return "other"
	}

	switch path {
	case "/", "/browse", "/report", "/report/live", "/metrics",
		"/api/items", "/api/categories", "/api/analyze-item-details":
		return path
	}
	return "other"
}

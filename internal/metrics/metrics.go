// Package metrics defines the Prometheus metrics exported by tracklist.
//
// All metrics are registered with the default registry through promauto
// and are prefixed with "tracklist_". Mount promhttp.Handler() to expose
// them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jfmyers9/tracklist/internal/playlist"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Directory API metrics
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracklist_api_requests_total",
			Help: "Total number of outbound directory API and RSS requests",
		},
		[]string{"code", "method"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracklist_api_request_duration_seconds",
			Help:    "Outbound request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	APIRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracklist_api_requests_in_flight",
			Help: "Number of outbound requests currently in flight",
		},
	)
)

// Resolver metrics
var (
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracklist_resolutions_total",
			Help: "Total number of playlist resolutions by result",
		},
		[]string{"result"}, // "success", "error"
	)

	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tracklist_resolution_duration_seconds",
			Help:    "Playlist resolution duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	PointersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracklist_pointers_total",
			Help: "Total number of remote item pointers by outcome",
		},
		[]string{"status"}, // "resolved", "unresolved"
	)
)

// HTTP server metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracklist_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracklist_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// InstrumentRoundTripper wraps next so every outbound request is counted
// and timed. A nil next means http.DefaultTransport.
func InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(APIRequestsInFlight,
		promhttp.InstrumentRoundTripperCounter(APIRequestsTotal,
			promhttp.InstrumentRoundTripperDuration(APIRequestDuration, next),
		),
	)
}

// ObserveResolution records one Resolve call.
func ObserveResolution(result *playlist.Result, err error, elapsed time.Duration) {
	ResolutionDuration.Observe(elapsed.Seconds())

	if err != nil {
		ResolutionsTotal.WithLabelValues("error").Inc()
		return
	}
	ResolutionsTotal.WithLabelValues("success").Inc()

	for _, o := range result.Outcomes {
		PointersTotal.WithLabelValues(o.Status.String()).Inc()
	}
}

// Middleware records request counts and durations labelled by the chi
// route pattern, so path parameters do not inflate cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

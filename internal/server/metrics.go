package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one server on a private registry.
//
// It satisfies services.Recorder so the services can report domain events.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	registrations prometheus.Counter
	logins        *prometheus.CounterVec
	playlists     prometheus.Counter
	uploads       prometheus.Counter
}

// NewMetrics registers every collector, plus the Go and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mixtape_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mixtape_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		registrations: f.NewCounter(prometheus.CounterOpts{
			Name: "mixtape_registrations_total",
			Help: "Users registered.",
		}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mixtape_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		playlists: f.NewCounter(prometheus.CounterOpts{
			Name: "mixtape_playlists_created_total",
			Help: "Playlists created.",
		}),
		uploads: f.NewCounter(prometheus.CounterOpts{
			Name: "mixtape_tracks_uploaded_total",
			Help: "MP3 tracks uploaded.",
		}),
	}
}

func (m *Metrics) Registered()      { m.registrations.Inc() }
func (m *Metrics) PlaylistCreated() { m.playlists.Inc() }
func (m *Metrics) TrackUploaded()   { m.uploads.Inc() }

func (m *Metrics) LoggedIn(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts and times requests, labelled by the matched route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

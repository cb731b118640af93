package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/notifier/pkg/dispatch"
	"github.com/dmitrymomot/notifier/pkg/hub"
)

// DefaultPrefix is prepended to every metric name.
const DefaultPrefix = "notification_service_"

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

// Option configures Metrics.
type Option func(*options)

type options struct {
	prefix          string
	runtimeMetrics  bool
	durationBuckets []float64
}

// WithPrefix overrides DefaultPrefix.
func WithPrefix(p string) Option {
	return func(o *options) { o.prefix = p }
}

// WithoutRuntimeMetrics skips the Go and process collectors.
func WithoutRuntimeMetrics() Option {
	return func(o *options) { o.runtimeMetrics = false }
}

// WithDurationBuckets sets the HTTP latency histogram buckets in seconds.
func WithDurationBuckets(b []float64) Option {
	return func(o *options) {
		if len(b) > 0 {
			o.durationBuckets = b
		}
	}
}

// Metrics holds the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	sent          *prometheus.CounterVec
	deviceResults *prometheus.CounterVec
	peerErrors    *prometheus.CounterVec
	connections   prometheus.Gauge
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New creates and registers every collector.
func New(opts ...Option) *Metrics {
	o := options{
		prefix:          DefaultPrefix,
		runtimeMetrics:  true,
		durationBuckets: prometheus.ExponentialBuckets(0.001, 2, 15),
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sent_total",
			Help: "Notification delivery attempts by channel, status and template, topic or event.",
		}, []string{"type", "status", "template"}),
		deviceResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "push_device_results_total",
			Help: "Per-device results of multicast push deliveries.",
		}, []string{"status"}),
		peerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "socket_peer_errors_total",
			Help: "Socket sends that failed for a single connection.",
		}, []string{"reason"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "socket_connections",
			Help: "Currently registered socket connections.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests received.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: o.durationBuckets,
		}, []string{"method", "route", "code"}),
	}

	reg := prometheus.WrapRegistererWithPrefix(o.prefix, m.registry)
	reg.MustRegister(
		m.sent,
		m.deviceResults,
		m.peerErrors,
		m.connections,
		m.httpRequests,
		m.httpDuration,
	)
	if o.runtimeMetrics {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Record implements dispatch.Recorder.
func (m *Metrics) Record(o dispatch.Outcome) {
	label := o.Label
	if label == "" {
		label = "N/A"
	}
	m.sent.WithLabelValues(string(o.Channel), string(o.Status), label).Inc()
	if o.Delivered > 0 {
		m.deviceResults.WithLabelValues(string(dispatch.StatusSuccess)).Add(float64(o.Delivered))
	}
	if o.Failed > 0 {
		m.deviceResults.WithLabelValues(string(dispatch.StatusFailure)).Add(float64(o.Failed))
	}
}

// Connected implements hub.Observer.
func (m *Metrics) Connected(total int) { m.connections.Set(float64(total)) }

// Disconnected implements hub.Observer.
func (m *Metrics) Disconnected(total int) { m.connections.Set(float64(total)) }

// SendFailed implements hub.Observer.
func (m *Metrics) SendFailed(_ hub.ConnectionID, err error) {
	m.peerErrors.WithLabelValues(peerErrorReason(err)).Inc()
}

func peerErrorReason(err error) string {
	switch {
	case errors.Is(err, hub.ErrSendBufferFull):
		return "buffer_full"
	case errors.Is(err, hub.ErrPeerClosed):
		return "closed"
	default:
		return "other"
	}
}

// Middleware counts requests and observes their latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		code := strconv.Itoa(status)
		m.httpRequests.WithLabelValues(r.Method, route, code).Inc()
		m.httpDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
	})
}

var (
	_ dispatch.Recorder = (*Metrics)(nil)
	_ hub.Observer      = (*Metrics)(nil)
)

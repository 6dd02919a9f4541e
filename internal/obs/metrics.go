package obs

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	requests        *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	rateLimitDrops  prometheus.Counter
	providerErrors  *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	providerResults *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_requests_total",
			Help: "Total number of search requests by endpoint",
		}, []string{"endpoint"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_cache_hits_total",
			Help: "Number of search requests served from cache",
		}, []string{"endpoint"}),
		rateLimitDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_ratelimit_drops_total",
			Help: "Requests dropped due to rate limiting",
		}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_errors_total",
			Help: "Failed vendor calls absorbed by provider adapters",
		}, []string{"provider", "operation"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "provider_latency_seconds",
			Help:    "Latency of provider adapter calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
		providerResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_results_total",
			Help: "Results contributed by each provider",
		}, []string{"provider", "operation"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		m.requests,
		m.cacheHits,
		m.rateLimitDrops,
		m.providerErrors,
		m.providerLatency,
		m.providerResults,
		m.httpDuration,
	)

	return m
}

// IncRequests increments the request counter for endpoint.
func (m *Metrics) IncRequests(endpoint string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint).Inc()
}

// IncCacheHits increments the cache hit counter for endpoint.
func (m *Metrics) IncCacheHits(endpoint string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(endpoint).Inc()
}

// IncRateLimitDrops increments the rate limit drop counter.
func (m *Metrics) IncRateLimitDrops() {
	if m == nil {
		return
	}
	m.rateLimitDrops.Inc()
}

// IncProviderErrors increments the error counter of a provider operation.
func (m *Metrics) IncProviderErrors(provider, operation string) {
	if m == nil {
		return
	}
	m.providerErrors.WithLabelValues(provider, operation).Inc()
}

// ObserveProviderLatency records how long a provider operation took.
func (m *Metrics) ObserveProviderLatency(provider, operation string, seconds float64) {
	if m == nil {
		return
	}
	m.providerLatency.WithLabelValues(provider, operation).Observe(seconds)
}

// AddProviderResults counts results contributed by a provider operation.
func (m *Metrics) AddProviderResults(provider, operation string, n int) {
	if m == nil {
		return
	}
	m.providerResults.WithLabelValues(provider, operation).Add(float64(n))
}

// ObserveHTTPRequest records the duration of a served request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(seconds)
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// HealthHandler answers liveness probes.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

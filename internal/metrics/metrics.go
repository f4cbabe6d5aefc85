package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the API client and pollers report into.
type Recorder interface {
	RecordRequest(method string, status int, d time.Duration)
	RecordRequestFailure(method string)
	RecordPollTick(poller string)
}

// Collector implements Recorder on prometheus metrics.
type Collector struct {
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
	latency  prometheus.Histogram
	ticks    *prometheus.CounterVec
}

// NewCollector registers the client metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "synapse_api_requests_total",
			Help: "API responses by method and status code",
		}, []string{"method", "status_code"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "synapse_api_transport_failures_total",
			Help: "API calls that failed before a response arrived",
		}, []string{"method"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "synapse_api_request_seconds",
			Help:    "API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "synapse_poll_ticks_total",
			Help: "Polling loop ticks by poller",
		}, []string{"poller"}),
	}
	reg.MustRegister(c.requests, c.failures, c.latency, c.ticks)
	return c
}

func (c *Collector) RecordRequest(method string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.latency.Observe(d.Seconds())
}

func (c *Collector) RecordRequestFailure(method string) {
	c.failures.WithLabelValues(method).Inc()
}

func (c *Collector) RecordPollTick(poller string) {
	c.ticks.WithLabelValues(poller).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, int, time.Duration) {}
func (Nop) RecordRequestFailure(string)              {}
func (Nop) RecordPollTick(string)                    {}

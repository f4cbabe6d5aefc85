package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorExposesRecordedValues(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("GET", 200, 20*time.Millisecond)
	c.RecordRequest("POST", 503, time.Second)
	c.RecordRequestFailure("GET")
	c.RecordPollTick("notifications")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`synapse_api_requests_total{method="GET",status_code="200"} 1`,
		`synapse_api_requests_total{method="POST",status_code="503"} 1`,
		`synapse_api_transport_failures_total{method="GET"} 1`,
		`synapse_poll_ticks_total{poller="notifications"} 1`,
		`synapse_api_request_seconds_count 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordRequest("GET", 200, 0)
	r.RecordRequestFailure("GET")
	r.RecordPollTick("x")
}

// Package metrics defines the Prometheus collectors for the call flow.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voicetasks"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultDenied  = "unauthorized"
)

// Metrics records call flow and HTTP metrics.
type Metrics struct {
	promptsServed   prometheus.Counter
	captures        prometheus.Counter
	tasksCreated    *prometheus.CounterVec
	callsTriggered  *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	itemsPerCapture prometheus.Histogram
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		promptsServed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompts_served_total",
			Help:      "Number of speech prompts returned to the telephony provider.",
		}),
		captures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captures_total",
			Help:      "Number of transcripts received.",
		}),
		tasksCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_created_total",
			Help:      "Task creation attempts by result.",
		}, []string{"result"}),
		callsTriggered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_triggered_total",
			Help:      "Outbound call trigger attempts by result.",
		}, []string{"result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		itemsPerCapture: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "items_per_capture",
			Help:      "Task candidates split from one transcript.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
	}
}

// PromptServed counts a prompt document.
func (m *Metrics) PromptServed() {
	m.promptsServed.Inc()
}

// Captured counts a transcript and how many candidates it produced.
func (m *Metrics) Captured(items int) {
	m.captures.Inc()
	m.itemsPerCapture.Observe(float64(items))
}

// TaskCreated counts one task creation attempt.
func (m *Metrics) TaskCreated(err error) {
	m.tasksCreated.WithLabelValues(result(err)).Inc()
}

// CallTriggered counts one outbound call attempt.
func (m *Metrics) CallTriggered(result string) {
	m.callsTriggered.WithLabelValues(result).Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

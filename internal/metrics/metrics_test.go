package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.PromptServed()
	m.Captured(3)
	m.TaskCreated(nil)
	m.TaskCreated(nil)
	m.TaskCreated(errors.New("boom"))
	m.CallTriggered(ResultDenied)
	m.ObserveRequest("/capture", 200, 150*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.promptsServed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.captures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.tasksCreated.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksCreated.WithLabelValues(ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.callsTriggered.WithLabelValues(ResultDenied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/capture", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

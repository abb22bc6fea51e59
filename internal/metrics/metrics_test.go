package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Frame(true, 2, 10*time.Millisecond)
	m.Frame(false, 1, 0)
	m.Event("close")
	m.Event("close")
	m.Verdict("number-compare", "correct")
	m.Session("number-compare", "completed", 12*time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Frames.WithLabelValues("fresh")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Frames.WithLabelValues("reused")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Hands))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Events.WithLabelValues("close")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Verdicts.WithLabelValues("number-compare", "correct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sessions.WithLabelValues("number-compare", "completed")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Frame(true, 1, time.Millisecond)
		m.Event("count")
		m.Verdict("music", "penalty")
		m.Session("music", "aborted", time.Second)
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Event("count")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `mudra_gesture_events_total{kind="count"} 1`))
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

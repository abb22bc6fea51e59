// Package metrics defines the Prometheus collectors exported by the game loop.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mudra"

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	Frames   *prometheus.CounterVec
	Hands    prometheus.Gauge
	Events   *prometheus.CounterVec
	Verdicts *prometheus.CounterVec
	Sessions *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Detect   prometheus.Histogram
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frames_total",
				Help:      "Frames processed, by whether the pose estimator ran or the previous detection was reused",
			},
			[]string{"detection"},
		),
		Hands: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hands_visible",
			Help:      "Hands observed in the most recent frame",
		}),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gesture_events_total",
				Help:      "Confirmed gesture events",
			},
			[]string{"kind"},
		),
		Verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verdicts_total",
				Help:      "Answers judged by the challenge machine",
			},
			[]string{"game", "verdict"},
		),
		Sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_total",
				Help:      "Finished sessions by outcome",
			},
			[]string{"game", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "session_duration_seconds",
				Help:      "Scored time of finished sessions",
				Buckets:   []float64{5, 10, 20, 30, 60, 120, 300, 600},
			},
			[]string{"game"},
		),
		Detect: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detect_duration_seconds",
			Help:      "Time spent in the pose estimator per frame",
			Buckets:   prometheus.ExponentialBuckets(0.002, 2, 10),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Frames, m.Hands, m.Events, m.Verdicts, m.Sessions, m.Duration, m.Detect)
	}
	return m
}

// Frame records one processed frame.
func (m *Metrics) Frame(detected bool, hands int, took time.Duration) {
	if m == nil {
		return
	}
	if detected {
		m.Frames.WithLabelValues("fresh").Inc()
		m.Detect.Observe(took.Seconds())
	} else {
		m.Frames.WithLabelValues("reused").Inc()
	}
	m.Hands.Set(float64(hands))
}

// Event records a confirmed gesture event of the given kind.
func (m *Metrics) Event(kind string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(kind).Inc()
}

// Verdict records a judged answer.
func (m *Metrics) Verdict(game, verdict string) {
	if m == nil {
		return
	}
	m.Verdicts.WithLabelValues(game, verdict).Inc()
}

// Session records a finished session.
func (m *Metrics) Session(game, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Sessions.WithLabelValues(game, outcome).Inc()
	m.Duration.WithLabelValues(game).Observe(elapsed.Seconds())
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

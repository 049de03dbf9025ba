package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	AttemptSuccess = "success"
	AttemptFailure = "failure"

	RoundFound = "found"
	RoundEmpty = "empty"

	AlertSent      = "sent"
	AlertDuplicate = "duplicate"
	AlertFailed    = "failed"

	// ProbeExhausted labels dates skipped after the retry budget ran out.
	ProbeExhausted = "exhausted"
)

var (
	probesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slotwatch",
			Name:      "probes_total",
			Help:      "Probed dates, partitioned by verdict.",
		},
		[]string{"verdict"},
	)

	attemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slotwatch",
			Name:      "probe_attempts_total",
			Help:      "Upstream requests, partitioned by result.",
		},
		[]string{"result"},
	)

	roundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slotwatch",
			Name:      "rounds_total",
			Help:      "Completed polling rounds, partitioned by whether a slot was found.",
		},
		[]string{"result"},
	)

	alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slotwatch",
			Name:      "alerts_total",
			Help:      "Alert decisions for available dates.",
		},
		[]string{"result"},
	)

	probeSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "slotwatch",
			Name:      "probe_seconds",
			Help:      "Latency of single upstream requests in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15},
		},
	)
)

// Register attaches slotwatch collectors to the supplied registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		probesTotal,
		attemptsTotal,
		roundsTotal,
		alertsTotal,
		probeSeconds,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

func ObserveProbe(verdict string)  { probesTotal.WithLabelValues(verdict).Inc() }
func ObserveAttempt(result string) { attemptsTotal.WithLabelValues(result).Inc() }
func ObserveAlert(result string)   { alertsTotal.WithLabelValues(result).Inc() }

func ObserveRound(found bool) {
	label := RoundEmpty
	if found {
		label = RoundFound
	}
	roundsTotal.WithLabelValues(label).Inc()
}

func ObserveProbeLatency(d time.Duration) {
	if d < 0 {
		d = 0
	}
	probeSeconds.Observe(d.Seconds())
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second register should tolerate duplicates: %v", err)
	}
}

func TestObserveRound_Labels(t *testing.T) {
	beforeFound := testutil.ToFloat64(roundsTotal.WithLabelValues(RoundFound))
	beforeEmpty := testutil.ToFloat64(roundsTotal.WithLabelValues(RoundEmpty))

	ObserveRound(true)
	ObserveRound(false)
	ObserveRound(false)

	if got := testutil.ToFloat64(roundsTotal.WithLabelValues(RoundFound)) - beforeFound; got != 1 {
		t.Fatalf("want 1 found round, got %v", got)
	}
	if got := testutil.ToFloat64(roundsTotal.WithLabelValues(RoundEmpty)) - beforeEmpty; got != 2 {
		t.Fatalf("want 2 empty rounds, got %v", got)
	}
}

func TestObserveProbeLatency_NegativeClamped(t *testing.T) {
	ObserveProbeLatency(-time.Second)
	ObserveProbeLatency(150 * time.Millisecond)
	if n := testutil.CollectAndCount(probeSeconds); n != 1 {
		t.Fatalf("want one histogram series, got %d", n)
	}
}

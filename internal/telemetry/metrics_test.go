package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveVerification(t *testing.T) {
	m := NewMetrics()
	m.ObserveVerification("")
	m.ObserveVerification("")
	m.ObserveVerification("stale")

	if got := testutil.ToFloat64(m.verifications.WithLabelValues("authenticated")); got != 2 {
		t.Fatalf("expected 2 authenticated got %v", got)
	}
	if got := testutil.ToFloat64(m.verifications.WithLabelValues("stale")); got != 1 {
		t.Fatalf("expected 1 stale got %v", got)
	}
}

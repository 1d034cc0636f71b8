package metrics

import (
	"testing"

	"taste-bridge/internal/command"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CommandIssued(command.Snapshot{Sequence: 0})
	m.CommandIssued(command.Snapshot{Sequence: 1})
	m.CommandIssued(command.Snapshot{Sequence: 2})
	m.CommandResolved(command.Snapshot{Sequence: 0}, command.OutcomeSuccess, "success\r")
	m.CommandResolved(command.Snapshot{Sequence: 1}, command.OutcomeEvicted, "queue")
	m.ConnectionChanged(true)

	if got := testutil.ToFloat64(m.issued); got != 3 {
		t.Errorf("Expected 3 issued, got %v", got)
	}
	if got := testutil.ToFloat64(m.pending); got != 1 {
		t.Errorf("Expected 1 pending, got %v", got)
	}
	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("evicted")); got != 1 {
		t.Errorf("Expected 1 evicted, got %v", got)
	}
	if got := testutil.ToFloat64(m.connected); got != 1 {
		t.Errorf("Expected connected gauge 1, got %v", got)
	}

	m.ConnectionChanged(false)
	if got := testutil.ToFloat64(m.connected); got != 0 {
		t.Errorf("Expected connected gauge 0, got %v", got)
	}
}

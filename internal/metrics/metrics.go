// Package metrics 명령 결과와 연결 상태에 대한 Prometheus 지표
package metrics

import (
	"taste-bridge/internal/command"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics command.Observer 구현. 틱 고루틴에서 호출되며 카운터 갱신만 함
type Metrics struct {
	issued    prometheus.Counter
	outcomes  *prometheus.CounterVec
	pending   prometheus.Gauge
	connected prometheus.Gauge
}

// New 지표를 생성해 reg 에 등록
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taste",
			Subsystem: "device",
			Name:      "commands_issued_total",
			Help:      "Total number of commands sent to the device",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taste",
			Subsystem: "device",
			Name:      "command_outcomes_total",
			Help:      "Total number of resolved commands by outcome",
		}, []string{"outcome"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "taste",
			Subsystem: "device",
			Name:      "pending_commands",
			Help:      "Number of commands awaiting a device response",
		}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "taste",
			Subsystem: "device",
			Name:      "connected",
			Help:      "1 if the device link is connected",
		}),
	}

	reg.MustRegister(m.issued, m.outcomes, m.pending, m.connected)
	return m
}

func (m *Metrics) CommandIssued(command.Snapshot) {
	m.issued.Inc()
	m.pending.Inc()
}

func (m *Metrics) CommandResolved(_ command.Snapshot, outcome command.Outcome, _ string) {
	m.outcomes.WithLabelValues(string(outcome)).Inc()
	m.pending.Dec()
}

func (m *Metrics) ConnectionChanged(connected bool) {
	if connected {
		m.connected.Set(1)
	} else {
		m.connected.Set(0)
	}
}

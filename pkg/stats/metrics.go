package stats

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vesting"

// Metrics are the prometheus collectors of the daemon.
type Metrics struct {
	messages    *prometheus.CounterVec
	deployments *prometheus.CounterVec
	skipped     prometheus.Counter
	outbound    prometheus.Counter
	inFlight    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with r.
func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_processed_total",
			Help:      "Messages processed, by operation and exit code.",
		}, []string{"op", "exit_code"}),
		deployments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contracts_deployed_total",
			Help:      "Contracts deployed, by kind.",
		}, []string{"kind"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_skipped_total",
			Help:      "Messages addressed to undeployed contracts.",
		}),
		outbound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_emitted_total",
			Help:      "Messages emitted by contracts.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "messages_in_flight",
			Help:      "Messages queued and not yet processed.",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.messages, m.deployments, m.skipped, m.outbound, m.inFlight,
	} {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveMessage records the outcome of a processed message.
func (m *Metrics) ObserveMessage(op string, exitCode uint32, outbound int, skipped bool) {
	if skipped {
		m.skipped.Inc()
		return
	}
	if op == "" {
		op = "none"
	}
	m.messages.WithLabelValues(op, fmt.Sprintf("0x%x", exitCode)).Inc()
	m.outbound.Add(float64(outbound))
}

// ObserveDeployment records a deployment of a contract of the given kind.
func (m *Metrics) ObserveDeployment(kind string) {
	m.deployments.WithLabelValues(kind).Inc()
}

// SetInFlight reports the number of queued messages.
func (m *Metrics) SetInFlight(n int) {
	m.inFlight.Set(float64(n))
}

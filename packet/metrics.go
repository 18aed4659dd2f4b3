package packet

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsInitOnce sync.Once
	sharedMetrics   *poolMetrics
)

type poolMetrics struct {
	gets     *prometheus.CounterVec
	allocs   *prometheus.CounterVec
	recycles *prometheus.CounterVec
}

func newPoolMetrics() *poolMetrics {
	metricsInitOnce.Do(func() {
		pm := &poolMetrics{
			gets: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lobbynet_packet_pool_gets_total",
				Help: "Packet instances handed out, by packet type.",
			}, []string{"type"}),
			allocs: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lobbynet_packet_pool_allocs_total",
				Help: "Packet instances freshly constructed because the pool was empty.",
			}, []string{"type"}),
			recycles: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lobbynet_packet_pool_recycles_total",
				Help: "Packet instances returned to their pool.",
			}, []string{"type"}),
		}
		prometheus.MustRegister(pm.gets, pm.allocs, pm.recycles)
		sharedMetrics = pm
	})
	return sharedMetrics
}

func (m *poolMetrics) recordGet(typeName string, pooled bool) {
	if m == nil {
		return
	}
	m.gets.WithLabelValues(typeName).Inc()
	if !pooled {
		m.allocs.WithLabelValues(typeName).Inc()
	}
}

func (m *poolMetrics) recordRecycle(typeName string) {
	if m == nil {
		return
	}
	m.recycles.WithLabelValues(typeName).Inc()
}

package lobby

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsInitOnce sync.Once
	sharedMetrics   *lobbyMetrics
)

type lobbyMetrics struct {
	registrations *prometheus.CounterVec
	roomsCreated  prometheus.Counter
	upkeepRuns    prometheus.Counter
	users         prometheus.Gauge
	rooms         prometheus.Gauge
}

func newLobbyMetrics() *lobbyMetrics {
	metricsInitOnce.Do(func() {
		lm := &lobbyMetrics{
			registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lobbynet_lobby_registrations_total",
				Help: "User registration attempts by outcome.",
			}, []string{"result"}),
			roomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lobbynet_lobby_rooms_created_total",
				Help: "Rooms created.",
			}),
			upkeepRuns: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lobbynet_lobby_upkeep_runs_total",
				Help: "Upkeep ticks performed.",
			}),
			users: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "lobbynet_lobby_users",
				Help: "Users currently admitted to the lobby.",
			}),
			rooms: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "lobbynet_lobby_rooms",
				Help: "Rooms currently registered.",
			}),
		}
		prometheus.MustRegister(lm.registrations, lm.roomsCreated, lm.upkeepRuns, lm.users, lm.rooms)
		sharedMetrics = lm
	})
	return sharedMetrics
}

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_players",
		Help: "Alive players in the world.",
	})
	metricFood = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_food",
		Help: "Food pellets in the world.",
	})
	metricConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_connections",
		Help: "Open websocket connections.",
	})
	metricTickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_tick_duration_seconds",
		Help:    "Wall time spent per simulation tick.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
	metricSnapshotsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_snapshots_dropped_total",
		Help: "Snapshots dropped because a client queue was full.",
	})
	metricCommandsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_commands_rejected_total",
		Help: "Commands dropped by validation, admission, or backpressure.",
	})
	metricPlayersEaten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_players_eaten_total",
		Help: "Player-vs-player eats resolved.",
	})
	metricFoodEaten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_food_eaten_total",
		Help: "Food pellets eaten.",
	})
)

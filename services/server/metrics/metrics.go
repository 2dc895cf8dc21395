// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package metrics registers the server's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveConnections tracks open WebSocket connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linkrace_websocket_connections",
		Help: "Open WebSocket connections.",
	})

	// ActiveRooms tracks live rooms.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linkrace_rooms",
		Help: "Rooms currently registered.",
	})

	// ActiveGames tracks races in the playing state.
	ActiveGames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linkrace_games_in_progress",
		Help: "Races currently in progress.",
	})

	// Commands counts WebSocket commands by action and result.
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkrace_commands_total",
		Help: "WebSocket commands processed, by action and result.",
	}, []string{"action", "result"})

	// PathSearches counts shortest-path queries by outcome.
	PathSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkrace_path_searches_total",
		Help: "Shortest-path searches, by outcome.",
	}, []string{"outcome"})

	// PathSearchDuration observes shortest-path latency.
	PathSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "linkrace_path_search_seconds",
		Help:    "Shortest-path search latency.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})
)

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the HTTP and WebSocket endpoints.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/linkrace/services/game"
	"github.com/AleutianAI/linkrace/services/graph"
	"github.com/AleutianAI/linkrace/services/server/datatypes"
)

// HealthCheck reports liveness plus the corpus dimensions, so a probe can
// tell an empty database from a healthy one.
func HealthCheck(store graph.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := store.Stats(c.Request.Context())
		if err != nil {
			slog.Error("health check failed to read corpus stats", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"pages":     stats.Pages,
			"links":     stats.LinkRows,
			"redirects": stats.Redirects,
		})
	}
}

// GameStats summarizes the live room table.
func GameStats(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := registry.Stats()
		c.JSON(http.StatusOK, datatypes.GameStatsResponse{
			Rooms:   s.Rooms,
			Players: s.Players,
			Playing: s.Playing,
		})
	}
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/linkrace/services/game"
	"github.com/AleutianAI/linkrace/services/graph"
	"github.com/AleutianAI/linkrace/services/pathfind"
	"github.com/AleutianAI/linkrace/services/server/handlers"
)

func SetupRoutes(router *gin.Engine, store graph.Store, finder *pathfind.Finder,
	registry *game.Registry, session *game.Session, hub *handlers.Hub,
	limits handlers.GameSocketLimits) {

	router.GET("/health", handlers.HealthCheck(store))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/paths", handlers.HandleShortestPath(finder))
		v1.POST("/graphs", handlers.HandleGraph(finder))
		v1.GET("/graphs/neighbors", handlers.HandleNeighbors(finder))

		pages := v1.Group("/pages")
		{
			pages.GET("", handlers.GetPage(store))
			pages.GET("/search", handlers.SearchPages(store))
			pages.GET("/random", handlers.RandomPage(store))
		}

		gameGroup := v1.Group("/game")
		{
			gameGroup.GET("/stats", handlers.GameStats(registry))
			gameGroup.GET("/ws", handlers.HandleGameSocket(registry, session, hub, limits))
		}
	}
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"log/slog"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/linkrace/services/game"
	"github.com/AleutianAI/linkrace/services/graph"
	"github.com/AleutianAI/linkrace/services/pathfind"
	"github.com/AleutianAI/linkrace/services/server/handlers"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := graph.NewMemoryStore()
	finder := pathfind.NewFinder(store, slog.New(slog.DiscardHandler))
	registry := game.NewRegistry(nil)
	session := game.NewSession(registry, finder, nil)

	router := gin.New()
	SetupRoutes(router, store, finder, registry, session, handlers.NewHub(),
		handlers.GameSocketLimits{Rate: 10, Burst: 20})

	want := map[string]string{
		"/health":              "GET",
		"/metrics":             "GET",
		"/v1/paths":            "POST",
		"/v1/graphs":           "POST",
		"/v1/graphs/neighbors": "GET",
		"/v1/pages":            "GET",
		"/v1/pages/search":     "GET",
		"/v1/pages/random":     "GET",
		"/v1/game/stats":       "GET",
		"/v1/game/ws":          "GET",
	}

	got := make(map[string]string)
	for _, r := range router.Routes() {
		got[r.Path] = r.Method
	}
	for path, method := range want {
		assert.Equal(t, method, got[path], "route %s", path)
	}
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/linkrace/services/game"
	"github.com/AleutianAI/linkrace/services/graph"
	"github.com/AleutianAI/linkrace/services/pathfind"
)

// testCorpus: Dog -> Mammal -> Cat, Dog -> Bone, plus a Doggo alias of Dog.
func testCorpus() *graph.MemoryStore {
	s := graph.NewMemoryStore()
	s.AddPage(1, "Dog", false)
	s.AddPage(2, "Mammal", false)
	s.AddPage(3, "Cat", false)
	s.AddPage(4, "Bone", false)
	s.AddPage(5, "Doggo", true)
	s.AddLink(1, 2)
	s.AddLink(2, 3)
	s.AddLink(1, 4)
	s.AddRedirect(5, 1)
	return s
}

type testEnv struct {
	router   *gin.Engine
	store    *graph.MemoryStore
	registry *game.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testCorpus()
	logger := slog.New(slog.DiscardHandler)
	finder := pathfind.NewFinder(store, logger)
	registry := game.NewRegistry(nil)
	session := game.NewSession(registry, finder, nil)
	hub := NewHub()

	router := gin.New()
	router.GET("/health", HealthCheck(store))
	router.POST("/v1/paths", HandleShortestPath(finder))
	router.POST("/v1/graphs", HandleGraph(finder))
	router.GET("/v1/graphs/neighbors", HandleNeighbors(finder))
	router.GET("/v1/pages", GetPage(store))
	router.GET("/v1/pages/search", SearchPages(store))
	router.GET("/v1/pages/random", RandomPage(store))
	router.GET("/v1/game/stats", GameStats(registry))
	router.GET("/v1/game/ws", HandleGameSocket(registry, session, hub,
		GameSocketLimits{Rate: 100, Burst: 100}))

	return &testEnv{router: router, store: store, registry: registry}
}

// rxEnvelope mirrors datatypes.Envelope with raw data for per-event
// decoding.
type rxEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// readUntil consumes messages until one matches the wanted event,
// failing the test if it does not show up quickly.
func readUntil(t *testing.T, ws *websocket.Conn, event string) rxEnvelope {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	require.NoError(t, ws.SetReadDeadline(deadline))
	for {
		var env rxEnvelope
		require.NoError(t, ws.ReadJSON(&env), "waiting for %q", event)
		if env.Event == event {
			return env
		}
	}
}

func decodeData(t *testing.T, env rxEnvelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

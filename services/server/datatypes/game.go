// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "github.com/AleutianAI/linkrace/services/game"

// WebSocket command actions. Clients send one Command per message; the
// Action field selects the branch and decides which other fields matter.
const (
	ActionCreateRoom     = "create-room"
	ActionJoinRoom       = "join-room"
	ActionLeaveRoom      = "leave-room"
	ActionChangeName     = "change-name"
	ActionUpdateSettings = "update-settings"
	ActionStartGame      = "start-game"
	ActionNavigate       = "article-navigation"
	ActionTargetReached  = "reach-target"
	ActionGetRoom        = "get-room"
	ActionEndGame        = "end-game"
)

// Command is the client-to-server WebSocket envelope.
type Command struct {
	Action      string              `json:"action" validate:"required"`
	Name        string              `json:"name,omitempty" validate:"omitempty,max=64"`
	Code        string              `json:"code,omitempty" validate:"omitempty,max=8"`
	Topic       string              `json:"topic,omitempty" validate:"omitempty,max=512"`
	StartTopic  string              `json:"start_topic,omitempty" validate:"omitempty,max=512"`
	TargetTopic string              `json:"target_topic,omitempty" validate:"omitempty,max=512"`
	Settings    *game.SettingsPatch `json:"settings,omitempty"`
}

// Envelope is the server-to-client WebSocket message. Event names are the
// game package's broadcast constants plus the direct reply kinds below.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Direct (non-broadcast) reply events.
const (
	EventConnected   = "connected"
	EventRoomCreated = "room-created"
	EventRoomJoined  = "room-joined"
	EventRoomState   = "room-state"
	EventRoomLeft    = "room-left"
	EventError       = "error"
)

// ConnectedEvent is sent once, immediately after the upgrade, carrying the
// server-minted player identifier for this connection.
type ConnectedEvent struct {
	PlayerID string `json:"player_id"`
}

// RoomCreatedEvent answers a create-room command.
type RoomCreatedEvent struct {
	Room game.RoomSnapshot `json:"room"`
}

// RoomJoinedEvent answers a join-room command.
type RoomJoinedEvent struct {
	Room game.RoomSnapshot   `json:"room"`
	You  game.PlayerSnapshot `json:"you"`
}

// GameStatsResponse is the room-table summary at /v1/game/stats.
type GameStatsResponse struct {
	Rooms   int `json:"rooms"`
	Players int `json:"players"`
	Playing int `json:"games_in_progress"`
}

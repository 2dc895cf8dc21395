// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package game

// Room broadcast event names. The transport fans these out to every
// connection in a room; delivery is best effort and never blocks a state
// transition.
const (
	EventPlayerJoined       = "player-joined"
	EventPlayerLeft         = "player-left"
	EventPlayerDisconnected = "player-disconnected"
	EventHostChanged        = "host-changed"
	EventNameChanged        = "name-changed"
	EventSettingsUpdated    = "settings-updated"
	EventGameStarted        = "game-started"
	EventTopicUpdated       = "player-article-updated"
	EventTargetReached      = "player-reached-target"
	EventGameEnded          = "game-ended"
)

// PlayerJoinedEvent tells existing members about a new arrival.
type PlayerJoinedEvent struct {
	Player PlayerSnapshot `json:"player"`
	Room   RoomSnapshot   `json:"room"`
}

// PlayerLeftEvent reports a leave, with the promoted host when the leaver
// was hosting.
type PlayerLeftEvent struct {
	PlayerID  string       `json:"player_id"`
	Name      string       `json:"name"`
	NewHostID string       `json:"new_host_id,omitempty"`
	Room      RoomSnapshot `json:"room"`
}

// PlayerDisconnectedEvent reports a mid-race connection drop; the player
// stays on the roster.
type PlayerDisconnectedEvent struct {
	PlayerID string       `json:"player_id"`
	Name     string       `json:"name"`
	Room     RoomSnapshot `json:"room"`
}

// NameChangedEvent reports a rename.
type NameChangedEvent struct {
	PlayerID string `json:"player_id"`
	OldName  string `json:"old_name"`
	NewName  string `json:"new_name"`
}

// SettingsUpdatedEvent carries the room settings after a host edit.
type SettingsUpdatedEvent struct {
	Settings Settings `json:"settings"`
}

// GameStartedEvent announces the race: every client navigates to the start
// topic and the timer begins.
type GameStartedEvent struct {
	Room RoomSnapshot `json:"room"`
}

// TopicUpdatedEvent reports one player's click.
type TopicUpdatedEvent struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Topic    string `json:"topic"`
	Clicks   int    `json:"clicks"`
}

// TargetReachedEvent announces an arrival and its score.
type TargetReachedEvent struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Clicks   int    `json:"clicks"`
	Score    int    `json:"score"`
}

// GameEndedEvent carries the final standings.
type GameEndedEvent struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Room        RoomSnapshot       `json:"room"`
}

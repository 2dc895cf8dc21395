// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package game

import (
	"sync"
	"time"
)

// State is the lifecycle phase of a room. Transitions are one way:
// waiting -> playing -> finished.
type State string

const (
	StateWaiting  State = "waiting"
	StatePlaying  State = "playing"
	StateFinished State = "finished"
)

// Room limits and defaults.
const (
	// MaxPlayers is the hard per-room player cap.
	MaxPlayers = 25

	// MinPlayersToStart is the minimum roster size for a race.
	MinPlayersToStart = 2

	// DefaultTimeLimit is the race timer, in minutes, applied when the
	// host never touches settings. Clients run the clock; the server
	// only relays the value.
	DefaultTimeLimit = 5

	// DefaultLanguage is the graph corpus language applied by default.
	DefaultLanguage = "en"
)

// Settings is the host-editable room configuration. The start and target
// topics may stay empty until the host starts the race.
type Settings struct {
	TimeLimit   int    `json:"time_limit"`
	Language    string `json:"language"`
	StartTopic  string `json:"start_topic"`
	TargetTopic string `json:"target_topic"`
}

// SettingsPatch is a partial settings update. Nil fields are left untouched.
type SettingsPatch struct {
	TimeLimit   *int    `json:"time_limit,omitempty"`
	Language    *string `json:"language,omitempty"`
	StartTopic  *string `json:"start_topic,omitempty"`
	TargetTopic *string `json:"target_topic,omitempty"`
}

// Player is one member of a room. Score is nil until the race ends or the
// player reaches the target.
type Player struct {
	ID           string
	Name         string
	CurrentTopic string
	Clicks       int
	Reached      bool
	ReachedAt    time.Time
	Score        *int
	Connected    bool
	joinedAt     time.Time
	joinOrder    int
}

// Room is one race lobby. All fields are guarded by mu except Code, which
// is immutable after creation.
type Room struct {
	mu sync.Mutex

	Code      string
	HostID    string
	State     State
	Settings  Settings
	Players   []*Player
	CreatedAt time.Time
	StartedAt time.Time
	EndedAt   time.Time

	// usedNames holds every player name lowercased. It is kept in exact
	// sync with Players: one entry per player, updated in the same
	// critical section as any roster or rename change.
	usedNames map[string]struct{}

	// lastActive is bumped on every mutation; the reaper keys off it.
	lastActive time.Time

	// nextJoin is monotonic across leaves so host promotion always picks
	// the longest-standing remaining player.
	nextJoin int
}

func newRoom(code, hostID string, now time.Time) *Room {
	return &Room{
		Code:       code,
		HostID:     hostID,
		State:      StateWaiting,
		CreatedAt:  now,
		lastActive: now,
		Settings: Settings{
			TimeLimit: DefaultTimeLimit,
			Language:  DefaultLanguage,
		},
		usedNames: make(map[string]struct{}),
	}
}

// player returns the roster entry for id, or nil. Caller holds r.mu.
func (r *Room) player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerSnapshot is the wire-safe view of a Player.
type PlayerSnapshot struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CurrentTopic string `json:"current_topic,omitempty"`
	Clicks       int    `json:"clicks"`
	Reached      bool   `json:"reached"`
	Score        *int   `json:"score"`
	Connected    bool   `json:"connected"`
	IsHost       bool   `json:"is_host"`
}

// RoomSnapshot is the wire-safe view of a Room. It shares no pointers with
// the live room, so callers may serialize it without holding any lock.
type RoomSnapshot struct {
	Code      string           `json:"code"`
	HostID    string           `json:"host_id"`
	State     State            `json:"state"`
	Settings  Settings         `json:"settings"`
	Players   []PlayerSnapshot `json:"players"`
	StartedAt *time.Time       `json:"started_at,omitempty"`
	EndedAt   *time.Time       `json:"ended_at,omitempty"`
}

// Snapshot copies the room's observable state under its lock.
func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() RoomSnapshot {
	snap := RoomSnapshot{
		Code:     r.Code,
		HostID:   r.HostID,
		State:    r.State,
		Settings: r.Settings,
		Players:  make([]PlayerSnapshot, 0, len(r.Players)),
	}
	if !r.StartedAt.IsZero() {
		t := r.StartedAt
		snap.StartedAt = &t
	}
	if !r.EndedAt.IsZero() {
		t := r.EndedAt
		snap.EndedAt = &t
	}
	for _, p := range r.Players {
		ps := PlayerSnapshot{
			ID:           p.ID,
			Name:         p.Name,
			CurrentTopic: p.CurrentTopic,
			Clicks:       p.Clicks,
			Reached:      p.Reached,
			Connected:    p.Connected,
			IsHost:       p.ID == r.HostID,
		}
		if p.Score != nil {
			s := *p.Score
			ps.Score = &s
		}
		snap.Players = append(snap.Players, ps)
	}
	return snap
}

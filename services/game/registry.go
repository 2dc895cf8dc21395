// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package game

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/AleutianAI/linkrace/pkg/logging"
	"github.com/AleutianAI/linkrace/pkg/validation"
)

// Reaper policy.
const (
	// ReapInterval is how often the reaper sweeps the room table.
	ReapInterval = 60 * time.Second

	// emptyRoomTTL is how long a room with no connected players survives.
	emptyRoomTTL = 5 * time.Minute

	// finishedRoomTTL is how long a finished room survives after the
	// race ends, so late clients can still fetch the leaderboard.
	finishedRoomTTL = 30 * time.Minute
)

// Stats summarizes the live room table.
type Stats struct {
	Rooms   int `json:"rooms"`
	Players int `json:"players"`
	Playing int `json:"games_in_progress"`
}

// DisconnectOutcome reports what a connection drop did to the player's room.
type DisconnectOutcome struct {
	Removed     bool
	RoomDeleted bool
	NewHostID   string
	Player      PlayerSnapshot
	Room        *RoomSnapshot
}

// Registry owns every live room and the connection-to-room index.
// All methods are safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	rooms       map[string]*Room
	playerRooms map[string]string

	rng *rand.Rand
	now func() time.Time
	log *logging.Logger
}

// NewRegistry returns an empty registry. Pass logging.Discard() in tests.
func NewRegistry(log *logging.Logger) *Registry {
	if log == nil {
		log = logging.Discard()
	}
	return &Registry{
		rooms:       make(map[string]*Room),
		playerRooms: make(map[string]string),
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:         time.Now,
		log:         log,
	}
}

// CreateRoom makes a new waiting room with playerID as host. An empty name
// gets the first default name.
func (g *Registry) CreateRoom(playerID, name string) (RoomSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, joined := g.playerRooms[playerID]; joined {
		return RoomSnapshot{}, ErrAlreadyJoined
	}

	now := g.now()
	room := newRoom(g.uniqueCode(), playerID, now)

	room.mu.Lock()
	g.addPlayerLocked(room, playerID, name, now)
	snap := room.snapshotLocked()
	room.mu.Unlock()

	g.rooms[room.Code] = room
	g.playerRooms[playerID] = room.Code

	g.log.Info("room created", slog.String("room", room.Code), slog.String("host", playerID))
	return snap, nil
}

// JoinRoom adds playerID to the room identified by code. The room must be
// waiting and below the player cap, and the name must be free within the
// room. An empty name gets the next free default name.
func (g *Registry) JoinRoom(code, playerID, name string) (RoomSnapshot, PlayerSnapshot, error) {
	code = validation.NormalizeRoomCode(code)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, joined := g.playerRooms[playerID]; joined {
		return RoomSnapshot{}, PlayerSnapshot{}, ErrAlreadyJoined
	}
	room, ok := g.rooms[code]
	if !ok {
		return RoomSnapshot{}, PlayerSnapshot{}, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.State != StateWaiting {
		return RoomSnapshot{}, PlayerSnapshot{}, ErrGameInProgress
	}
	if len(room.Players) >= MaxPlayers {
		return RoomSnapshot{}, PlayerSnapshot{}, ErrRoomFull
	}
	name = strings.TrimSpace(name)
	if name != "" {
		if _, taken := room.usedNames[strings.ToLower(name)]; taken {
			return RoomSnapshot{}, PlayerSnapshot{}, ErrNameTaken
		}
	}

	p := g.addPlayerLocked(room, playerID, name, g.now())
	g.playerRooms[playerID] = code
	snap := room.snapshotLocked()

	g.log.Info("player joined", slog.String("room", code), slog.String("player", playerID), slog.String("name", p.Name))
	return snap, playerSnapshot(room, p), nil
}

// addPlayerLocked appends a roster entry and records its name. Caller holds
// both the registry write lock and room.mu; name is already trimmed and
// either free within the room or empty.
func (g *Registry) addPlayerLocked(room *Room, playerID, name string, now time.Time) *Player {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultNameLocked(room)
	}
	p := &Player{
		ID:        playerID,
		Name:      name,
		Connected: true,
		joinedAt:  now,
		joinOrder: room.nextJoin,
	}
	room.nextJoin++
	room.Players = append(room.Players, p)
	room.usedNames[strings.ToLower(name)] = struct{}{}
	room.lastActive = now
	return p
}

// defaultNameLocked picks the first free "Player N", starting from the
// would-be roster position. Caller holds room.mu.
func defaultNameLocked(room *Room) string {
	for i := len(room.Players); ; i++ {
		name := validation.DefaultPlayerName(i)
		if _, taken := room.usedNames[strings.ToLower(name)]; !taken {
			return name
		}
	}
}

// RenamePlayer changes a player's display name after validating it and
// checking for a case-insensitive collision within the room.
func (g *Registry) RenamePlayer(playerID, name string) (RoomSnapshot, string, string, error) {
	name, err := validation.SanitizePlayerName(name)
	if err != nil {
		return RoomSnapshot{}, "", "", err
	}

	g.mu.RLock()
	room, err := g.roomOfLocked(playerID)
	g.mu.RUnlock()
	if err != nil {
		return RoomSnapshot{}, "", "", err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	p := room.player(playerID)
	if p == nil {
		return RoomSnapshot{}, "", "", ErrPlayerNotFound
	}
	lower := strings.ToLower(name)
	if _, taken := room.usedNames[lower]; taken && lower != strings.ToLower(p.Name) {
		return RoomSnapshot{}, "", "", ErrNameTaken
	}

	old := p.Name
	delete(room.usedNames, strings.ToLower(old))
	p.Name = name
	room.usedNames[lower] = struct{}{}
	room.lastActive = g.now()

	return room.snapshotLocked(), old, name, nil
}

// UpdateSettings applies a partial settings update. Host only, waiting only.
func (g *Registry) UpdateSettings(playerID string, patch SettingsPatch) (RoomSnapshot, error) {
	g.mu.RLock()
	room, err := g.roomOfLocked(playerID)
	g.mu.RUnlock()
	if err != nil {
		return RoomSnapshot{}, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.HostID != playerID {
		return RoomSnapshot{}, ErrNotHost
	}
	if room.State != StateWaiting {
		return RoomSnapshot{}, ErrGameInProgress
	}
	if patch.TimeLimit != nil {
		room.Settings.TimeLimit = *patch.TimeLimit
	}
	if patch.Language != nil {
		room.Settings.Language = *patch.Language
	}
	if patch.StartTopic != nil {
		room.Settings.StartTopic = *patch.StartTopic
	}
	if patch.TargetTopic != nil {
		room.Settings.TargetTopic = *patch.TargetTopic
	}
	room.lastActive = g.now()

	return room.snapshotLocked(), nil
}

// RemovePlayer takes playerID out of its room, promoting the
// longest-standing remaining player to host and deleting the room when it
// empties.
func (g *Registry) RemovePlayer(playerID string) (DisconnectOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.removePlayerLocked(playerID)
}

// Disconnect handles a dropped connection. During play the player is kept
// on the roster, flagged disconnected, so the race can still score them;
// in any other state the drop is a leave.
func (g *Registry) Disconnect(playerID string) (DisconnectOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, err := g.roomOfLocked(playerID)
	if err != nil {
		return DisconnectOutcome{}, err
	}

	room.mu.Lock()
	if room.State == StatePlaying {
		defer room.mu.Unlock()
		p := room.player(playerID)
		if p == nil {
			return DisconnectOutcome{}, ErrPlayerNotFound
		}
		p.Connected = false
		room.lastActive = g.now()
		snap := room.snapshotLocked()
		return DisconnectOutcome{Player: playerSnapshot(room, p), Room: &snap}, nil
	}
	room.mu.Unlock()

	return g.removePlayerLocked(playerID)
}

// removePlayerLocked does the actual leave. Caller holds the registry
// write lock.
func (g *Registry) removePlayerLocked(playerID string) (DisconnectOutcome, error) {
	room, err := g.roomOfLocked(playerID)
	if err != nil {
		return DisconnectOutcome{}, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	p := room.player(playerID)
	if p == nil {
		delete(g.playerRooms, playerID)
		return DisconnectOutcome{}, ErrPlayerNotFound
	}

	out := DisconnectOutcome{Removed: true}
	delete(g.playerRooms, playerID)
	delete(room.usedNames, strings.ToLower(p.Name))
	for i, q := range room.Players {
		if q.ID == playerID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}
	out.Player = PlayerSnapshot{ID: p.ID, Name: p.Name, Clicks: p.Clicks, Reached: p.Reached, Connected: p.Connected, IsHost: p.ID == room.HostID}

	if len(room.Players) == 0 {
		delete(g.rooms, room.Code)
		out.RoomDeleted = true
		g.log.Info("room deleted", slog.String("room", room.Code), slog.String("reason", "empty"))
		return out, nil
	}

	if room.HostID == playerID {
		next := room.Players[0]
		for _, q := range room.Players[1:] {
			if q.joinOrder < next.joinOrder {
				next = q
			}
		}
		room.HostID = next.ID
		out.NewHostID = next.ID
		g.log.Info("host changed", slog.String("room", room.Code), slog.String("host", next.ID))
	}
	room.lastActive = g.now()
	snap := room.snapshotLocked()
	out.Room = &snap
	return out, nil
}

// Room returns a snapshot of the room with the given code.
func (g *Registry) Room(code string) (RoomSnapshot, error) {
	code = validation.NormalizeRoomCode(code)
	g.mu.RLock()
	room, ok := g.rooms[code]
	g.mu.RUnlock()
	if !ok {
		return RoomSnapshot{}, ErrRoomNotFound
	}
	return room.Snapshot(), nil
}

// RoomByPlayer returns a snapshot of the room playerID is in.
func (g *Registry) RoomByPlayer(playerID string) (RoomSnapshot, error) {
	g.mu.RLock()
	room, err := g.roomOfLocked(playerID)
	g.mu.RUnlock()
	if err != nil {
		return RoomSnapshot{}, err
	}
	return room.Snapshot(), nil
}

// roomOfLocked resolves playerID through the index. Caller holds g.mu in
// either mode.
func (g *Registry) roomOfLocked(playerID string) (*Room, error) {
	code, ok := g.playerRooms[playerID]
	if !ok {
		return nil, ErrNotInRoom
	}
	room, ok := g.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Stats counts rooms, players, and races in flight.
func (g *Registry) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := Stats{Rooms: len(g.rooms), Players: len(g.playerRooms)}
	for _, room := range g.rooms {
		room.mu.Lock()
		if room.State == StatePlaying {
			s.Playing++
		}
		room.mu.Unlock()
	}
	return s
}

// RunReaper sweeps abandoned rooms every interval until ctx is cancelled.
func (g *Registry) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.reap(g.now())
		}
	}
}

// reap deletes rooms with no connected players past the idle TTL and
// finished rooms past the retention TTL.
func (g *Registry) reap(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for code, room := range g.rooms {
		room.mu.Lock()
		dead := false
		switch {
		case room.State == StateFinished && now.Sub(room.lastActive) > finishedRoomTTL:
			dead = true
		case !anyConnectedLocked(room) && now.Sub(room.lastActive) > emptyRoomTTL:
			dead = true
		}
		var players []*Player
		if dead {
			players = room.Players
		}
		room.mu.Unlock()

		if !dead {
			continue
		}
		delete(g.rooms, code)
		for _, p := range players {
			delete(g.playerRooms, p.ID)
		}
		g.log.Info("room reaped", slog.String("room", code), slog.Int("players", len(players)))
	}
}

func anyConnectedLocked(room *Room) bool {
	for _, p := range room.Players {
		if p.Connected {
			return true
		}
	}
	return false
}

func playerSnapshot(room *Room, p *Player) PlayerSnapshot {
	ps := PlayerSnapshot{
		ID:           p.ID,
		Name:         p.Name,
		CurrentTopic: p.CurrentTopic,
		Clicks:       p.Clicks,
		Reached:      p.Reached,
		Connected:    p.Connected,
		IsHost:       p.ID == room.HostID,
	}
	if p.Score != nil {
		s := *p.Score
		ps.Score = &s
	}
	return ps
}

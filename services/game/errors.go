// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package game implements multiplayer race rooms and their progression.
//
// A Room moves waiting -> playing -> finished, one way; a finished room is
// never restarted. The Registry owns every live Room and the
// connection-to-room index; a Room exclusively owns its Players. Nothing
// outside the registry holds a Room or Player reference across calls.
//
// # Concurrency
//
// The registry map and the player index are guarded by the registry lock;
// each Room carries its own lock for field mutation, so operations on
// distinct rooms do not contend. Operations that touch both a room and the
// registry indexes (join, leave, reap) hold the registry write lock for the
// whole mutation so the player list, the used-name set, and the index are
// never observably out of sync.
package game

import "errors"

// Room command failures. All are structured command results with
// human-readable reasons; none are fatal to the process.
var (
	// ErrRoomNotFound is returned when a room code does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrGameInProgress is returned when joining a room that already left
	// the waiting state.
	ErrGameInProgress = errors.New("game already in progress")

	// ErrRoomFull is returned when a room is at the player cap.
	ErrRoomFull = errors.New("room is full")

	// ErrAlreadyJoined is returned when a connection joins a room twice.
	ErrAlreadyJoined = errors.New("already in room")

	// ErrNameTaken is returned on a case-insensitive display-name
	// collision within a room.
	ErrNameTaken = errors.New("username already taken in this room")

	// ErrNotInRoom is returned for player commands from a connection
	// that is not in any room.
	ErrNotInRoom = errors.New("not in a room")

	// ErrPlayerNotFound is returned when a connection is indexed to a
	// room that no longer contains it.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrNotHost is returned for host-gated commands from a non-host.
	ErrNotHost = errors.New("only the host can do that")

	// ErrNotEnoughPlayers is returned when starting a race alone.
	ErrNotEnoughPlayers = errors.New("need at least 2 players")

	// ErrGameNotStarted is returned when starting a room that is not
	// waiting (a finished room cannot restart).
	ErrGameNotStarted = errors.New("room is not waiting")

	// ErrGameNotInProgress is returned for race commands outside the
	// playing state, including a second end-game.
	ErrGameNotInProgress = errors.New("game not in progress")

	// ErrMissingTopics is returned when a race starts without both a
	// start and a target topic.
	ErrMissingTopics = errors.New("start and target topics required")
)

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
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/linkrace/pkg/logging"
	"github.com/AleutianAI/linkrace/services/pathfind"
)

// Scoring constants.
const (
	reachedBase       = 1000
	reachedClickCost  = 10
	reachedSecondCost = 2

	unreachedBase      = 500
	unreachedHopCost   = 100
	unreachedClickCost = 5

	// fallbackDegrees is charged when the distance from a player's final
	// topic to the target cannot be computed.
	fallbackDegrees = 6

	// scoreConcurrency bounds concurrent shortest-path queries at
	// end-game so a 25-player room does not flood the graph store.
	scoreConcurrency = 4
)

// ScoreReached is the score for a player who hit the target: fewer clicks
// and less time are worth more, floored at zero.
func ScoreReached(clicks, seconds int) int {
	return max(0, reachedBase-clicks*reachedClickCost-seconds*reachedSecondCost)
}

// ScoreUnreached is the consolation score for a player still racing at
// end-game, charged per remaining hop to the target and per click spent.
func ScoreUnreached(degrees, clicks int) int {
	return max(0, unreachedBase-degrees*unreachedHopCost-clicks*unreachedClickCost)
}

// PathEstimator measures how far a topic is from the target. *pathfind.Finder
// satisfies it.
type PathEstimator interface {
	ShortestPath(ctx context.Context, source, target string, opts ...pathfind.Option) (*pathfind.PathResult, error)
}

// LeaderboardEntry is one scored row of the final standings.
type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Clicks   int    `json:"clicks"`
	Reached  bool   `json:"reached"`
	Score    int    `json:"score"`
}

// RaceResult is the outcome of an ended race.
type RaceResult struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Room        RoomSnapshot       `json:"room"`
}

// Session drives rooms through the racing phase: starting, per-click
// progress, target arrival, and final scoring.
type Session struct {
	registry *Registry
	paths    PathEstimator
	log      *logging.Logger
}

// NewSession wires the race lifecycle over a registry and a path estimator.
func NewSession(registry *Registry, paths PathEstimator, log *logging.Logger) *Session {
	if log == nil {
		log = logging.Discard()
	}
	return &Session{registry: registry, paths: paths, log: log}
}

// StartRace moves the caller's room from waiting to playing. Host only,
// and the roster must hold at least MinPlayersToStart players. Empty topic
// arguments fall back to the room settings.
func (s *Session) StartRace(playerID, startTopic, targetTopic string) (RoomSnapshot, error) {
	g := s.registry
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
		return RoomSnapshot{}, ErrGameNotStarted
	}
	if len(room.Players) < MinPlayersToStart {
		return RoomSnapshot{}, ErrNotEnoughPlayers
	}
	if startTopic == "" {
		startTopic = room.Settings.StartTopic
	}
	if targetTopic == "" {
		targetTopic = room.Settings.TargetTopic
	}
	if startTopic == "" || targetTopic == "" {
		return RoomSnapshot{}, ErrMissingTopics
	}

	now := g.now()
	room.State = StatePlaying
	room.StartedAt = now
	room.lastActive = now
	room.Settings.StartTopic = startTopic
	room.Settings.TargetTopic = targetTopic
	for _, p := range room.Players {
		p.CurrentTopic = startTopic
		p.Clicks = 0
		p.Reached = false
		p.ReachedAt = time.Time{}
		p.Score = nil
	}

	s.log.Info("race started",
		slog.String("room", room.Code),
		slog.String("start", startTopic),
		slog.String("target", targetTopic),
		slog.Int("players", len(room.Players)))
	return room.snapshotLocked(), nil
}

// RecordNavigation registers one hyperlink click while the room is
// playing. Players who already reached the target may keep browsing;
// their score was frozen at reach time, so the extra clicks only affect
// the displayed counter and current topic.
func (s *Session) RecordNavigation(playerID, topic string) (RoomSnapshot, PlayerSnapshot, error) {
	g := s.registry
	g.mu.RLock()
	room, err := g.roomOfLocked(playerID)
	g.mu.RUnlock()
	if err != nil {
		return RoomSnapshot{}, PlayerSnapshot{}, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.State != StatePlaying {
		return RoomSnapshot{}, PlayerSnapshot{}, ErrGameNotInProgress
	}
	p := room.player(playerID)
	if p == nil {
		return RoomSnapshot{}, PlayerSnapshot{}, ErrPlayerNotFound
	}
	p.CurrentTopic = topic
	p.Clicks++
	room.lastActive = g.now()
	return room.snapshotLocked(), playerSnapshot(room, p), nil
}

// RecordTargetReached marks the player as done and scores them against the
// race clock. Calling it twice for the same player is a no-op that returns
// the original score.
func (s *Session) RecordTargetReached(playerID string) (RoomSnapshot, PlayerSnapshot, error) {
	g := s.registry
	g.mu.RLock()
	room, err := g.roomOfLocked(playerID)
	g.mu.RUnlock()
	if err != nil {
		return RoomSnapshot{}, PlayerSnapshot{}, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.State != StatePlaying {
		return RoomSnapshot{}, PlayerSnapshot{}, ErrGameNotInProgress
	}
	p := room.player(playerID)
	if p == nil {
		return RoomSnapshot{}, PlayerSnapshot{}, ErrPlayerNotFound
	}
	if !p.Reached {
		now := g.now()
		p.Reached = true
		p.ReachedAt = now
		p.CurrentTopic = room.Settings.TargetTopic
		score := ScoreReached(p.Clicks, int(now.Sub(room.StartedAt).Seconds()))
		p.Score = &score
		room.lastActive = now

		s.log.Info("target reached",
			slog.String("room", room.Code),
			slog.String("player", playerID),
			slog.Int("clicks", p.Clicks),
			slog.Int("score", score))
	}
	return room.snapshotLocked(), playerSnapshot(room, p), nil
}

// EndRace finishes the caller's room and produces the leaderboard. Any
// member may end the race (clients run the timer). The room flips to
// finished before scoring starts, so a concurrent second end-game is
// rejected instead of scored twice.
func (s *Session) EndRace(ctx context.Context, playerID string) (RaceResult, error) {
	g := s.registry
	g.mu.RLock()
	room, err := g.roomOfLocked(playerID)
	g.mu.RUnlock()
	if err != nil {
		return RaceResult{}, err
	}

	type pending struct {
		p      *Player
		topic  string
		clicks int
	}

	room.mu.Lock()
	if room.State != StatePlaying {
		room.mu.Unlock()
		return RaceResult{}, ErrGameNotInProgress
	}
	now := g.now()
	room.State = StateFinished
	room.EndedAt = now
	room.lastActive = now
	target := room.Settings.TargetTopic
	var unfinished []pending
	for _, p := range room.Players {
		if !p.Reached {
			unfinished = append(unfinished, pending{p: p, topic: p.CurrentTopic, clicks: p.Clicks})
		}
	}
	room.mu.Unlock()

	// Shortest-path queries run outside the room lock; the room is
	// already finished, so the roster copied above cannot gain clicks.
	scores := make([]int, len(unfinished))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(scoreConcurrency)
	for i, u := range unfinished {
		eg.Go(func() error {
			degrees := fallbackDegrees
			if s.paths != nil && u.topic != "" {
				res, err := s.paths.ShortestPath(gctx, u.topic, target, pathfind.WithMaxDepth(pathfind.DefaultMaxDepth))
				if err != nil {
					s.log.Warn("distance lookup failed, using fallback",
						slog.String("topic", u.topic), slog.String("error", err.Error()))
				} else if res.Degrees >= 0 {
					degrees = res.Degrees
				}
			}
			scores[i] = ScoreUnreached(degrees, u.clicks)
			return nil
		})
	}
	_ = eg.Wait()

	room.mu.Lock()
	defer room.mu.Unlock()

	for i, u := range unfinished {
		score := scores[i]
		u.p.Score = &score
	}

	players := make([]*Player, len(room.Players))
	copy(players, room.Players)
	sort.SliceStable(players, func(i, j int) bool {
		si, sj := 0, 0
		if players[i].Score != nil {
			si = *players[i].Score
		}
		if players[j].Score != nil {
			sj = *players[j].Score
		}
		if si != sj {
			return si > sj
		}
		return players[i].joinOrder < players[j].joinOrder
	})

	board := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		entry := LeaderboardEntry{PlayerID: p.ID, Name: p.Name, Clicks: p.Clicks, Reached: p.Reached}
		if p.Score != nil {
			entry.Score = *p.Score
		}
		board = append(board, entry)
	}

	s.log.Info("race ended", slog.String("room", room.Code), slog.Int("players", len(board)))
	return RaceResult{Leaderboard: board, Room: room.snapshotLocked()}, nil
}

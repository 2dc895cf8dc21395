// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package pathfind implements shortest-path and neighborhood queries over
// the link corpus.
//
// The package answers three questions for the game and its visualization
// consumers: the shortest click path between two topics (bidirectional BFS),
// a bounded-radius subgraph around a topic, and a topic's immediate
// neighbors.
//
// # Failure Semantics
//
// Unresolvable titles fail with graph.ErrPageNotFound wrapped with the role
// of the offending title. A valid pair with no connecting path inside the
// depth budget is NOT an error: ShortestPath returns Degrees == -1 and a nil
// Path, and callers must branch on that explicitly. Pages without link rows
// degrade to empty results throughout.
package pathfind

import "errors"

// Sentinel errors for pathfinding queries.
var (
	// ErrSearchCancelled is returned when the context expires mid-search.
	ErrSearchCancelled = errors.New("search cancelled")
)

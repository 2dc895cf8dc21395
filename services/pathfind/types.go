// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pathfind

import (
	"github.com/AleutianAI/linkrace/services/graph"
)

// PathResult is the outcome of a shortest-path query.
//
// A nil Path with Degrees == -1 means no path was found within the depth
// budget; that is an expected negative result, not an error.
type PathResult struct {
	// Path is the ordered page id sequence, source to target inclusive.
	Path []int64 `json:"path"`

	// Degrees is len(Path)-1 for a found path, 0 for source==target,
	// and -1 when no path exists within the budget.
	Degrees int `json:"degrees"`

	// Pages carries minimal metadata for every id on the path.
	Pages map[int64]*graph.Page `json:"pages"`

	// DurationMS is the query wall time in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// Message is set when no path was found, for display to the caller.
	Message string `json:"error,omitempty"`
}

// GraphNode is a node of a neighborhood graph, tagged with its discovery
// depth relative to the root.
type GraphNode struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Depth int    `json:"depth"`
}

// GraphLink is a directed edge of a neighborhood graph.
type GraphLink struct {
	Source int64 `json:"source"`
	Target int64 `json:"target"`
}

// GraphResult is a bounded-radius subgraph for visualization consumers.
type GraphResult struct {
	Nodes     []GraphNode `json:"nodes"`
	Links     []GraphLink `json:"links"`
	NodeCount int         `json:"node_count"`
	LinkCount int         `json:"link_count"`
}

// NeighborRef is a neighbor entry in a NeighborsResult.
type NeighborRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// NeighborsResult is a node plus its truncated outgoing neighborhood.
type NeighborsResult struct {
	Node      NeighborRef   `json:"node"`
	Neighbors []NeighborRef `json:"neighbors"`
	Links     []GraphLink   `json:"links"`
}

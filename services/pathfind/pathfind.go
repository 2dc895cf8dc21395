// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pathfind

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/linkrace/services/graph"
)

var tracer = otel.Tracer("pathfind")

// Finder answers pathfinding queries against a graph.Store.
//
// Finder is stateless apart from its store handle and safe for concurrent
// use; every query reads the corpus fresh and caches nothing.
type Finder struct {
	store  graph.Store
	logger *slog.Logger
}

// NewFinder returns a Finder over the given store.
func NewFinder(store graph.Store, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{store: store, logger: logger}
}

// ShortestPath finds the shortest click path between two titles.
//
// Description:
//
//	Resolves both titles (one redirect hop each), then runs bidirectional
//	BFS: forward from the source over outgoing links, backward from the
//	target over incoming links. Each loop iteration expands the forward
//	frontier only when it is not larger than the backward one, then always
//	expands the backward frontier; the budget is shared across both sides,
//	so maxDepth iterations can connect pairs up to roughly twice that many
//	hops apart. A match is a newly discovered node already visited by the
//	opposite side.
//
// Inputs:
//   - ctx: cancels the search between levels.
//   - sourceTitle, targetTitle: topic titles, case-insensitive.
//   - opts: WithMaxDepth (default 6, max 10).
//
// Outputs:
//   - *PathResult: found path with per-id page metadata, or Degrees -1 and
//     nil Path when the budget is exhausted. Never nil alongside a nil error.
//   - error: unresolvable titles (wrapping graph.ErrPageNotFound, naming
//     the absent title), store failures, or ErrSearchCancelled.
func (f *Finder) ShortestPath(ctx context.Context, sourceTitle, targetTitle string, opts ...Option) (*PathResult, error) {
	ctx, span := tracer.Start(ctx, "pathfind.ShortestPath")
	defer span.End()

	start := time.Now()
	options := pathOptions(opts)
	span.SetAttributes(
		attribute.String("source", sourceTitle),
		attribute.String("target", targetTitle),
		attribute.Int("max_depth", options.MaxDepth),
	)

	sourcePage, err := f.store.PageByTitle(ctx, sourceTitle)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	targetPage, err := f.store.PageByTitle(ctx, targetTitle)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	sourcePage, err = f.store.ResolveRedirect(ctx, sourcePage)
	if err != nil {
		return nil, err
	}
	targetPage, err = f.store.ResolveRedirect(ctx, targetPage)
	if err != nil {
		return nil, err
	}

	if sourcePage.ID == targetPage.ID {
		return &PathResult{
			Path:       []int64{sourcePage.ID},
			Degrees:    0,
			Pages:      map[int64]*graph.Page{sourcePage.ID: sourcePage},
			DurationMS: time.Since(start).Milliseconds(),
		}, nil
	}

	path, err := f.bidirectionalBFS(ctx, sourcePage.ID, targetPage.ID, options.MaxDepth)
	if err != nil {
		return nil, err
	}

	if path == nil {
		f.logger.Debug("no path found",
			"source", sourceTitle, "target", targetTitle, "max_depth", options.MaxDepth)
		return &PathResult{
			Path:       nil,
			Degrees:    -1,
			Pages:      map[int64]*graph.Page{},
			DurationMS: time.Since(start).Milliseconds(),
			Message:    fmt.Sprintf("No path found within %d degrees", options.MaxDepth),
		}, nil
	}

	pages, err := f.store.PagesByIDs(ctx, path)
	if err != nil {
		return nil, err
	}
	pageMap := make(map[int64]*graph.Page, len(pages))
	for _, p := range pages {
		pageMap[p.ID] = p
	}

	return &PathResult{
		Path:       path,
		Degrees:    len(path) - 1,
		Pages:      pageMap,
		DurationMS: time.Since(start).Milliseconds(),
	}, nil
}

// bfsSide is one frontier of the bidirectional search.
type bfsSide struct {
	frontier []int64
	visited  map[int64]bool
	depth    map[int64]int   // discovery depth per visited node
	parents  map[int64]int64 // child -> parent; roots have no entry
	root     int64
}

func newBFSSide(root int64) *bfsSide {
	return &bfsSide{
		frontier: []int64{root},
		visited:  map[int64]bool{root: true},
		depth:    map[int64]int{root: 0},
		parents:  make(map[int64]int64),
		root:     root,
	}
}

// bidirectionalBFS returns the id path or nil when the shared depth budget
// runs out before the frontiers meet.
func (f *Finder) bidirectionalBFS(ctx context.Context, sourceID, targetID int64, maxDepth int) ([]int64, error) {
	fwd := newBFSSide(sourceID)
	bwd := newBFSSide(targetID)

	for depth := 0; depth < maxDepth; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSearchCancelled, err)
		}

		if len(fwd.frontier) <= len(bwd.frontier) {
			meeting, found, err := f.expandLevel(ctx, fwd, bwd, true)
			if err != nil {
				return nil, err
			}
			if found {
				return reconstructPath(fwd, bwd, meeting), nil
			}
		}

		meeting, found, err := f.expandLevel(ctx, bwd, fwd, false)
		if err != nil {
			return nil, err
		}
		if found {
			return reconstructPath(fwd, bwd, meeting), nil
		}

		if len(fwd.frontier) == 0 && len(bwd.frontier) == 0 {
			break
		}
	}

	return nil, nil
}

// expandLevel advances one full BFS level on side, checking each discovery
// against other's visited set. The whole level is always completed before
// reporting a meeting node: the first contact in scan order is not
// necessarily on a shortest path, so among all contacts the one closest to
// the other side's root wins. Returns the chosen meeting node, if any.
func (f *Finder) expandLevel(ctx context.Context, side, other *bfsSide, forward bool) (int64, bool, error) {
	next := make([]int64, 0, len(side.frontier))

	meeting := int64(0)
	meetingParent := int64(0)
	found := false
	bestOtherDepth := 0

	for _, currentID := range side.frontier {
		links, err := f.store.Links(ctx, currentID)
		if err != nil {
			return 0, false, err
		}

		neighbors := links.Outgoing
		if !forward {
			neighbors = links.Incoming
		}

		for _, neighborID := range neighbors {
			if other.visited[neighborID] {
				if !found || other.depth[neighborID] < bestOtherDepth {
					meeting = neighborID
					meetingParent = currentID
					bestOtherDepth = other.depth[neighborID]
					found = true
				}
				continue
			}
			if !side.visited[neighborID] {
				side.visited[neighborID] = true
				side.depth[neighborID] = side.depth[currentID] + 1
				side.parents[neighborID] = currentID
				next = append(next, neighborID)
			}
		}
	}

	if found {
		side.parents[meeting] = meetingParent
		return meeting, true, nil
	}

	side.frontier = next
	return 0, false, nil
}

// reconstructPath walks both parent chains out from the meeting node and
// concatenates them source-to-target without duplicating the meeting node.
func reconstructPath(fwd, bwd *bfsSide, meeting int64) []int64 {
	var fromSource []int64
	for current := meeting; ; {
		fromSource = append([]int64{current}, fromSource...)
		if current == fwd.root {
			break
		}
		parent, ok := fwd.parents[current]
		if !ok {
			break
		}
		current = parent
	}

	path := fromSource
	for current := meeting; current != bwd.root; {
		parent, ok := bwd.parents[current]
		if !ok {
			break
		}
		path = append(path, parent)
		current = parent
	}

	return path
}
